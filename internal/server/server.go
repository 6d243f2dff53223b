package server

import (
	"net/http"

	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	log    *logrus.Logger
	zlog   *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *logrus.Logger, zlog *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		log:    log,
		zlog:   zlog,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Repositories
	userRepo := repository.NewUserRepository(s.db, s.zlog)
	todoRepo := repository.NewTodoRepository(s.db, s.zlog)
	blacklistRepo := repository.NewTokenBlacklistRepository(s.db, s.zlog)

	// Services
	tokenService := service.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.TokenExpiry())
	authService := service.NewAuthService(userRepo, blacklistRepo, tokenService, s.cfg.BlacklistRetention(), s.zlog)
	userService := service.NewUserService(userRepo, s.zlog)
	todoService := service.NewTodoService(todoRepo, s.zlog)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService, s.log)
	userHandler := handler.NewUserHandler(userService, s.log)
	todoHandler := handler.NewTodoHandler(todoService, s.log)

	guard := middleware.NewGuard(tokenService, blacklistRepo, userRepo, s.zlog)

	s.router.Use(middleware.CORS(s.cfg.CORS.Origin))

	// Root route for health check
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Todo API is running",
			"version": "v1",
		})
	})

	api := s.router.Group("/api/v1")

	// Public authentication routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := api.Group("")
	authRequired.Use(middleware.AuthMiddleware(guard))
	{
		authRequired.GET("/auth/me", authHandler.Me)
		authRequired.POST("/auth/logout", authHandler.Logout)

		authRequired.PUT("/users/profile", userHandler.UpdateProfile)
		authRequired.PUT("/users/password", userHandler.ChangePassword)

		authRequired.GET("/todos", todoHandler.GetTodos)
		authRequired.POST("/todos", todoHandler.CreateTodo)
		authRequired.GET("/todos/stats", todoHandler.GetStats)
		authRequired.GET("/todos/:id", todoHandler.GetTodoByID)
		authRequired.PUT("/todos/:id", todoHandler.UpdateTodo)
		authRequired.PATCH("/todos/:id/status", todoHandler.UpdateTodoStatus)
		authRequired.DELETE("/todos/:id", todoHandler.DeleteTodo)
	}

	// Admin-only routes
	adminRequired := api.Group("/users")
	adminRequired.Use(middleware.AuthMiddleware(guard), middleware.AdminOnly())
	{
		adminRequired.GET("", userHandler.GetUsers)
		adminRequired.GET("/:id", userHandler.GetUserByID)
		adminRequired.PUT("/:id", userHandler.UpdateUser)
		adminRequired.DELETE("/:id", userHandler.DeleteUser)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
