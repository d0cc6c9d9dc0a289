package book

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例
// 借阅记录在同一事务内显式删除,不依赖外键级联
type DeleteBookUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
	txManager  *mysql.TxManager
	cache      book.Cache
	logger     *zap.Logger
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	txManager *mysql.TxManager,
	cache book.Cache,
	logger *zap.Logger,
) *DeleteBookUseCase {
	if cache == nil {
		cache = book.NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeleteBookUseCase{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		txManager:  txManager,
		cache:      cache,
		logger:     logger,
	}
}

// DeleteBookResponse 删除结果
type DeleteBookResponse struct {
	BookID            uint  `json:"bookId"`
	DeletedBorrowLogs int64 `json:"deletedBorrowLogs"`
}

// Info 级联删除说明
func (r *DeleteBookResponse) Info() string {
	if r.DeletedBorrowLogs > 0 {
		return fmt.Sprintf("%d borrow log(s) also deleted", r.DeletedBorrowLogs)
	}
	return "No borrow logs to delete"
}

// Execute 执行删除:锁行 → 删除借阅记录 → 删除图书
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (resp *DeleteBookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "library/book", "DeleteBook")
	span.SetAttributes(attribute.Int64("book_id", int64(id)))
	defer func() { tracing.EndSpan(span, err) }()

	var deleted int64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.bookRepo.LockByID(txCtx, id); err != nil {
			return err
		}

		// 锁住图书行后不会再有新的借阅记录写入
		n, err := uc.borrowRepo.CountByBookID(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			if deleted, err = uc.borrowRepo.DeleteByBookID(txCtx, id); err != nil {
				return err
			}
		}
		return uc.bookRepo.Delete(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, book.NotFound(id)
		}
		return nil, err
	}

	invalidate(ctx, uc.cache, uc.logger, id)
	metrics.IncBookMutation("delete")
	uc.logger.Info("book deleted", zap.Uint("book_id", id), zap.Int64("borrow_logs", deleted))
	return &DeleteBookResponse{BookID: id, DeletedBorrowLogs: deleted}, nil
}
