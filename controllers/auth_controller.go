package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/secureapi/middleware"
	"github.com/cppla/secureapi/models"
	"github.com/cppla/secureapi/repository"
	"github.com/cppla/secureapi/utils"
)

// TokenIssuer mints access tokens for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthController handles registration, login and identity lookups.
type AuthController struct {
	users  *repository.UserRepository
	tokens TokenIssuer
}

// NewAuthController creates an AuthController.
func NewAuthController(users *repository.UserRepository, tokens TokenIssuer) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a local account. Username and password are escaped before use,
// exactly as Login escapes them, so the two stay consistent.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := bind(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	password := utils.Sanitize(req.Password)
	if err := utils.CheckPasswordLength(password); err != nil {
		utils.Fail(ctx, err)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	user := models.User{
		Username:     utils.Sanitize(req.Username),
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(ctx, utils.ErrConflict)
			return
		}
		utils.Fail(ctx, err)
		return
	}

	utils.Logger.Info("user registered", zap.Uint("user_id", user.ID))
	ctx.JSON(http.StatusCreated, user.Public())
}

// Login verifies user credentials and issues a bearer token. Unknown usernames and
// wrong passwords produce the same response after the same amount of hashing work.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := bind(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	username := utils.Sanitize(req.Username)
	password := utils.Sanitize(req.Password)
	if err := utils.CheckPasswordLength(password); err != nil {
		utils.Fail(ctx, err)
		return
	}

	user, err := a.users.FindByUsername(ctx.Request.Context(), username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.EqualizeMissingUser(password)
		utils.Fail(ctx, utils.ErrInvalidCredentials)
		return
	case err != nil:
		utils.Fail(ctx, err)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		utils.Fail(ctx, utils.ErrInvalidCredentials)
		return
	}

	token, err := a.tokens.Issue(user.Username)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Fail(ctx, utils.ErrUnauthenticated)
		return
	}
	ctx.JSON(http.StatusOK, user.Public())
}
