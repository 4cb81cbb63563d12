package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    int
		wantMessage string
		wantAuthHdr bool
	}{
		{name: "invalid credentials", err: ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: 40106, wantMessage: ErrInvalidCredentials.Message, wantAuthHdr: true},
		{name: "unauthenticated", err: ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantCode: 40105, wantMessage: ErrUnauthenticated.Message, wantAuthHdr: true},
		{name: "forbidden", err: ErrForbidden, wantStatus: http.StatusForbidden, wantCode: 40302, wantMessage: ErrForbidden.Message},
		{name: "not found", err: ErrNotFound, wantStatus: http.StatusNotFound, wantCode: 40404, wantMessage: ErrNotFound.Message},
		{name: "validation", err: ValidationError("title is required"), wantStatus: http.StatusUnprocessableEntity, wantCode: 42200, wantMessage: "title is required"},
		{name: "wrapped app error", err: fmt.Errorf("ctx: %w", ErrForbidden), wantStatus: http.StatusForbidden, wantCode: 40302, wantMessage: ErrForbidden.Message},
		{name: "store failure", err: errors.New("dial tcp 10.0.0.1:3306: connection refused"), wantStatus: http.StatusInternalServerError, wantCode: 50000, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			Fail(ctx, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, ctx.IsAborted())
			var body JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.NotContains(t, w.Body.String(), "connection refused")
			if tt.wantAuthHdr {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
