// Package router 组装HTTP路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// Version API版本
const Version = "1.0.0"

// New 创建Gin引擎并注册全部路由
//
//	GET    /ping
//	GET    /api
//	GET    /api/books
//	GET    /api/books/:id
//	POST   /api/books        (admin)
//	PUT    /api/books/:id    (admin)
//	DELETE /api/books/:id    (admin)
//	POST   /api/borrow       (user)
//	GET    /metrics
//	GET    /swagger/*any
func New(cfg *config.Config, logger *zap.Logger, books *handler.BookHandler, borrows *handler.BorrowHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS.AllowOrigins),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, "pong", gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("", index(cfg))

		bookGroup := api.Group("/books")
		{
			bookGroup.GET("", books.ListBooks)
			bookGroup.GET("/:id", books.GetBook)
			bookGroup.POST("", middleware.RequireAdmin(), books.CreateBook)
			bookGroup.PUT("/:id", middleware.RequireAdmin(), books.UpdateBook)
			bookGroup.DELETE("/:id", middleware.RequireAdmin(), books.DeleteBook)
		}

		api.POST("/borrow", middleware.RequireUser(), borrows.BorrowBook)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})
	return r
}

// index 接口目录
func index(cfg *config.Config) gin.HandlerFunc {
	endpoints := gin.H{
		"public": []string{
			"GET /api/books - Get all books",
			"GET /api/books/:id - Get book by ID",
		},
		"admin": []string{
			"POST /api/books - Create book (x-user-role: admin)",
			"PUT /api/books/:id - Update book (x-user-role: admin)",
			"DELETE /api/books/:id - Delete book (x-user-role: admin)",
		},
		"user": []string{
			"POST /api/borrow - Borrow book (x-user-role: user, x-user-id: [id])",
		},
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Library Management API - Location-Based Borrowing",
			"version":   Version,
			"endpoints": endpoints,
			"docs":      "/swagger/index.html",
			"grpcPort":  cfg.GRPC.Port,
		})
	}
}
