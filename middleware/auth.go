package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/secureapi/models"
	"github.com/cppla/secureapi/repository"
	"github.com/cppla/secureapi/utils"
)

// ContextUserKey is the key used to store the authenticated user in Gin context.
const ContextUserKey = "current_user"

// UserFinder resolves the username carried by a token.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenVerifier checks a bearer token and returns its username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate turns an Authorization header into a known user.
type Gate struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewGate(tokens TokenVerifier, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate validates a "Bearer <token>" header value and loads its user.
// Any token or identity problem is reported as utils.ErrUnauthenticated; only
// store failures come back as other errors.
func (g *Gate) Authenticate(ctx context.Context, authHeader string) (*models.User, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, utils.ErrUnauthenticated
	}

	username, err := g.tokens.Verify(token)
	if err != nil {
		return nil, utils.ErrUnauthenticated
	}

	user, err := g.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// Required ensures the request carries a valid token before any handler logic runs.
func (g *Gate) Required() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := g.Authenticate(ctx.Request.Context(), ctx.GetHeader("Authorization"))
		if err != nil {
			utils.Fail(ctx, err)
			return
		}
		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user stored by Required.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
