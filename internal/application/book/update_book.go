package book

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// UpdateBookUseCase 修改图书用例
// 与借阅事务一样先锁行再修改,管理员改库存和借阅扣库存不会互相覆盖
type UpdateBookUseCase struct {
	bookRepo  book.Repository
	txManager *mysql.TxManager
	cache     book.Cache
	logger    *zap.Logger
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(bookRepo book.Repository, txManager *mysql.TxManager, cache book.Cache, logger *zap.Logger) *UpdateBookUseCase {
	if cache == nil {
		cache = book.NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateBookUseCase{bookRepo: bookRepo, txManager: txManager, cache: cache, logger: logger}
}

// UpdateBookRequest 部分更新,nil字段保持原值
type UpdateBookRequest struct {
	ID     uint
	Title  *string
	Author *string
	Stock  *int
}

// Execute 执行修改
// 先确认图书存在,再校验字段:不存在的书返回404而不是400
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (resp *BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "library/book", "UpdateBook")
	span.SetAttributes(attribute.Int64("book_id", int64(req.ID)))
	defer func() { tracing.EndSpan(span, err) }()

	changes := book.Changes{Title: req.Title, Author: req.Author, Stock: req.Stock}

	var updated *book.Book
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.LockByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := b.Apply(changes); err != nil {
			return err
		}
		if err := uc.bookRepo.Update(txCtx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, book.NotFound(req.ID)
		}
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.logger, req.ID)
	metrics.IncBookMutation("update")
	uc.logger.Info("book updated", zap.Uint("book_id", updated.ID), zap.Int("stock", updated.Stock))
	return toResponse(updated), nil
}
