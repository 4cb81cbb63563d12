package utils

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("goodpw")
	require.NoError(t, err)
	second, err := HashPassword("goodpw")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "goodpw")
	assert.True(t, CheckPassword(first, "goodpw"))
	assert.True(t, CheckPassword(second, "goodpw"))
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("goodpw")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "match", hash: hash, password: "goodpw", want: true},
		{name: "wrong password", hash: hash, password: "wrong", want: false},
		{name: "empty password", hash: hash, password: "", want: false},
		{name: "malformed hash", hash: "not-a-bcrypt-hash", password: "goodpw", want: false},
		{name: "empty hash", hash: "", password: "goodpw", want: false},
		{name: "truncated hash", hash: hash[:20], password: "goodpw", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.hash, tt.password))
		})
	}
}

func TestHashPassword_Length(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "at limit", password: strings.Repeat("a", MaxPasswordBytes)},
		{name: "over limit", password: strings.Repeat("a", MaxPasswordBytes+1), wantErr: true},
		{name: "grows past limit once escaped", password: Sanitize(strings.Repeat("&", 15)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.True(t, CheckPassword(hash, tt.password))
				return
			}
			appErr, ok := IsAppError(err)
			require.True(t, ok, "want a validation error, got %v", err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
		})
	}
}

func TestEqualizeMissingUser(t *testing.T) {
	require.NotEmpty(t, dummyHash, "dummy hash must exist before the first login")
	assert.NotPanics(t, func() {
		EqualizeMissingUser("whatever")
		EqualizeMissingUser("")
	})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "<script>x</script>", want: "&lt;script&gt;x&lt;/script&gt;"},
		{in: "plain text", want: "plain text"},
		{in: `a & "b" 'c'`, want: "a &amp; &#34;b&#34; &#39;c&#39;"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}
