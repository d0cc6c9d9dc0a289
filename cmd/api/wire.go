//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/library/internal/application/book"
	appborrow "github.com/xiebiao/library/internal/application/borrow"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/interface/grpcserver"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// infrastructureSet 基础设施:数据库、缓存、消息
var infrastructureSet = wire.NewSet(
	provideDB,
	provideBookCache,
	provideEventPublisher,
)

// repositorySet 仓储和事务管理器
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewBorrowLogRepository,
	mysql.NewTxManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appborrow.NewBorrowBookUseCase,
)

// interfaceSet HTTP和gRPC
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewBorrowHandler,
	router.New,
	provideHealthChecker,
	grpcserver.NewServer,
)

// InitializeApp 组装整个应用
// cleanup按依赖的逆序关闭连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
