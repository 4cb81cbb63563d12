package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/secureapi/config"
	"github.com/cppla/secureapi/controllers"
	"github.com/cppla/secureapi/middleware"
	"github.com/cppla/secureapi/repository"
	"github.com/cppla/secureapi/utils"
)

// Dependencies are the process-wide collaborators the router wires into handlers.
type Dependencies struct {
	Config config.AppConfig
	DB     *gorm.DB
	Tokens *utils.TokenService
	Cache  *utils.Cache
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	accessLog := utils.Logger
	if cfg.GinPath != "" {
		if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin access log disabled: %v", err)
		}
	}
	r.Use(utils.Ginzap(accessLog))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	users := repository.NewUserRepository(deps.DB)
	posts := repository.NewPostRepository(deps.DB)
	gate := middleware.NewGate(deps.Tokens, users)

	systemController := controllers.NewSystemController(cfg.AppName, deps.DB)
	authController := controllers.NewAuthController(users, deps.Tokens)
	dataController := controllers.NewDataController(users)
	postController := controllers.NewPostController(posts, deps.Cache)

	r.GET("/", systemController.Root)
	r.GET("/health", systemController.Health)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", gate.Required(), authController.Me)

	api := r.Group("/api")
	api.Use(gate.Required())
	api.GET("/data", dataController.ListUsers)

	postsGroup := api.Group("/posts")
	postsGroup.POST("/", postController.CreatePost)
	postsGroup.GET("/", postController.ListPosts)
	postsGroup.GET("/:id", postController.GetPost)
	postsGroup.DELETE("/:id", postController.DeletePost)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
