package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogsterhq/blogster/config"
	"github.com/blogsterhq/blogster/controllers"
	"github.com/blogsterhq/blogster/middleware"
	"github.com/blogsterhq/blogster/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, relay *utils.MailRelay) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	contactController := controllers.NewContactController(relay)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	r.GET("/about", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"page": "about"})
	})

	// Public reads
	r.GET("/", postController.Index)
	r.GET("/post/:id", postController.Show)

	// Contact relay
	r.GET("/contact", contactController.Form)
	r.POST("/contact", contactController.Submit)

	// Account routes, rate limited against credential stuffing
	limited := r.Group("", middleware.RateLimitMiddleware())
	limited.GET("/login", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"form": "login"})
	})
	limited.POST("/login", authController.Login)
	limited.GET("/signup", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"form": "signup"})
	})
	limited.POST("/signup", authController.Signup)

	// Session required
	authed := r.Group("", middleware.AuthRequired())
	authed.GET("/logout", authController.Logout)
	authed.GET("/me", authController.Me)
	authed.POST("/post/:id", postController.CreateComment)

	// Session + admin role required; AdminRequired never runs when
	// AuthRequired aborts.
	admin := r.Group("", middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/create-post", postController.CreateForm)
	admin.POST("/create-post", postController.Create)
	admin.GET("/update-post/:id", postController.EditForm)
	admin.POST("/update-post/:id", postController.Update)
	admin.GET("/delete/:id", postController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
