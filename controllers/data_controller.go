package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/secureapi/models"
	"github.com/cppla/secureapi/repository"
	"github.com/cppla/secureapi/utils"
)

// DataController exposes read-only user data to authenticated callers.
type DataController struct {
	users *repository.UserRepository
}

func NewDataController(users *repository.UserRepository) *DataController {
	return &DataController{users: users}
}

// ListUsers returns every user without credentials.
func (d *DataController) ListUsers(ctx *gin.Context) {
	users, err := d.users.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	ctx.JSON(http.StatusOK, out)
}
