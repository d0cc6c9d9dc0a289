package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/grpcserver"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/mq"
)

// App 进程内需要启动的全部组件
type App struct {
	Engine *gin.Engine
	Health *grpcserver.HealthChecker
	GRPC   *grpc.Server
}

func newApp(engine *gin.Engine, health *grpcserver.HealthChecker, grpcServer *grpc.Server) *App {
	return &App{Engine: engine, Health: health, GRPC: grpcServer}
}

// provideDB 创建数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideBookCache redis.enabled=false时不使用缓存
func provideBookCache(cfg *config.Config, logger *zap.Logger) (book.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Info("book cache disabled")
		return book.NopCache{}, func() {}, nil
	}

	client, err := redis.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return redis.NewBookCache(client, cfg.Redis.BookTTL), func() { client.Close() }, nil
}

// provideEventPublisher rabbitmq.enabled=false时不发布事件
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (borrow.EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("borrow events disabled")
		return borrow.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic", logger)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.New("rabbitmq-publisher", circuitbreaker.Config{
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}, logger)

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close publisher failed", zap.Error(err))
		}
	}
	return messaging.NewBorrowEventPublisher(publisher, breaker, logger), cleanup, nil
}

// provideHealthChecker 每5秒探测一次数据库
func provideHealthChecker(db *gorm.DB, logger *zap.Logger) *grpcserver.HealthChecker {
	return grpcserver.NewHealthChecker(mysql.NewPinger(db), 5*time.Second, logger)
}
