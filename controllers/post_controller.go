package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/secureapi/middleware"
	"github.com/cppla/secureapi/models"
	"github.com/cppla/secureapi/repository"
	"github.com/cppla/secureapi/utils"
)

// Cached post responses are filed under a generation that every write advances,
// so a fill racing with a write lands under a key nobody reads.
const postCacheGenKey = "cache:posts:gen"

func postListCacheKey(gen int64) string {
	return fmt.Sprintf("cache:posts:%d:list", gen)
}

func postDetailCacheKey(gen int64, id uint) string {
	return fmt.Sprintf("cache:posts:%d:detail:%d", gen, id)
}

// PostController manages CRUD operations for posts.
type PostController struct {
	posts *repository.PostRepository
	cache *utils.Cache
}

// NewPostController creates a new PostController instance. cache may be nil.
func NewPostController(posts *repository.PostRepository, cache *utils.Cache) *PostController {
	return &PostController{posts: posts, cache: cache}
}

// author_id is deliberately absent: the author is always the caller.
type createPostRequest struct {
	Title   string `json:"title" form:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" form:"content" binding:"required,min=1"`
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Fail(ctx, utils.ErrUnauthenticated)
		return
	}

	var req createPostRequest
	if err := bind(ctx, &req); err != nil {
		utils.Fail(ctx, err)
		return
	}

	post := models.Post{
		Title:    utils.Sanitize(req.Title),
		Content:  utils.Sanitize(req.Content),
		AuthorID: user.ID,
	}
	if err := p.posts.Create(ctx.Request.Context(), &post); err != nil {
		// the caller's account was removed after the token check
		if errors.Is(err, repository.ErrNotFound) {
			utils.Fail(ctx, utils.ErrUnauthenticated)
			return
		}
		utils.Fail(ctx, err)
		return
	}

	p.cache.Bump(ctx.Request.Context(), postCacheGenKey)
	utils.Logger.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", user.ID))
	ctx.JSON(http.StatusCreated, post)
}

// ListPosts returns all posts regardless of author.
func (p *PostController) ListPosts(ctx *gin.Context) {
	gen, cacheable := p.cache.Generation(ctx.Request.Context(), postCacheGenKey)
	if cacheable {
		if b, ok := p.cache.GetBytes(ctx.Request.Context(), postListCacheKey(gen)); ok {
			ctx.Data(http.StatusOK, gin.MIMEJSON, b)
			return
		}
	}

	posts, err := p.posts.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	if cacheable {
		p.cache.SetJSON(ctx.Request.Context(), postListCacheKey(gen), posts, 0)
	}
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns a single post regardless of author.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	gen, cacheable := p.cache.Generation(ctx.Request.Context(), postCacheGenKey)
	if cacheable {
		if b, ok := p.cache.GetBytes(ctx.Request.Context(), postDetailCacheKey(gen, id)); ok {
			ctx.Data(http.StatusOK, gin.MIMEJSON, b)
			return
		}
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Fail(ctx, utils.ErrNotFound)
			return
		}
		utils.Fail(ctx, err)
		return
	}

	if cacheable {
		p.cache.SetJSON(ctx.Request.Context(), postDetailCacheKey(gen, id), post, 0)
	}
	ctx.JSON(http.StatusOK, post)
}

// DeletePost allows the author to delete their post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Fail(ctx, utils.ErrUnauthenticated)
		return
	}

	id, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	err = p.posts.DeleteOwned(ctx.Request.Context(), id, user.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.Fail(ctx, utils.ErrNotFound)
		return
	case errors.Is(err, repository.ErrNotOwner):
		utils.Fail(ctx, utils.ErrForbidden)
		return
	case err != nil:
		utils.Fail(ctx, err)
		return
	}

	p.cache.Bump(ctx.Request.Context(), postCacheGenKey)
	utils.Logger.Info("post deleted", zap.Uint("post_id", id), zap.Uint("author_id", user.ID))
	ctx.Status(http.StatusNoContent)
}
