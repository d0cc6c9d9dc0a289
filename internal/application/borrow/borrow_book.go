package borrow

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/access"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// BorrowBookUseCase 借阅用例
// 整个服务唯一有并发正确性要求的操作:
// 校验 → 锁行 → 检查库存 → 条件扣减 → 写借阅记录,全部在一个事务内完成
type BorrowBookUseCase struct {
	bookRepo   book.Repository
	borrowRepo borrow.Repository
	txManager  *mysql.TxManager
	cache      book.Cache
	publisher  borrow.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewBorrowBookUseCase 创建借阅用例
func NewBorrowBookUseCase(
	bookRepo book.Repository,
	borrowRepo borrow.Repository,
	txManager *mysql.TxManager,
	cache book.Cache,
	publisher borrow.EventPublisher,
	logger *zap.Logger,
) *BorrowBookUseCase {
	if cache == nil {
		cache = book.NopCache{}
	}
	if publisher == nil {
		publisher = borrow.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BorrowBookUseCase{
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		txManager:  txManager,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// BorrowBookRequest 借阅请求
// Principal由中间件注入,其余字段来自请求体(指针区分未提供)
type BorrowBookRequest struct {
	Principal access.Principal
	BookID    *uint
	Latitude  *float64
	Longitude *float64
}

// Location 借阅地点
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BorrowBookResponse 借阅结果快照
type BorrowBookResponse struct {
	BorrowID       uint      `json:"borrowId"`
	UserID         uint      `json:"userId"`
	BookID         uint      `json:"bookId"`
	BookTitle      string    `json:"bookTitle"`
	BorrowDate     time.Time `json:"borrowDate"`
	Location       Location  `json:"location"`
	RemainingStock int       `json:"remainingStock"`
}

// Execute 执行借阅
//
// 防止超借的完整流程:
//  1. SELECT ... FOR UPDATE 锁定图书行
//  2. 检查库存 > 0
//  3. UPDATE ... SET stock = stock - 1 WHERE id = ? AND stock > 0
//  4. 写入借阅记录
//  5. 在事务内重新读取库存,作为remainingStock返回
//  6. COMMIT释放锁
//
// 领域错误(BookNotFound、OutOfStock)原样返回;其余任何错误都视为TransactionFailed,
// 事务已整体回滚,不做自动重试。
func (uc *BorrowBookUseCase) Execute(ctx context.Context, req BorrowBookRequest) (resp *BorrowBookResponse, err error) {
	start := uc.now()
	ctx, span := tracing.StartSpan(ctx, "library/borrow", "BorrowBook")
	defer func() {
		tracing.EndSpan(span, err)
		result := "success"
		if err != nil {
			result = string(apperrors.KindOf(err))
		}
		metrics.ObserveBorrow(result, time.Since(start))
	}()

	if !req.Principal.CanBorrow() {
		return nil, borrow.ErrNotAllowed
	}

	cmd := borrow.Command{BookID: req.BookID, Latitude: req.Latitude, Longitude: req.Longitude}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	bookID, lat, long := *req.BookID, *req.Latitude, *req.Longitude
	span.SetAttributes(
		attribute.Int64("book_id", int64(bookID)),
		attribute.Int64("user_id", int64(req.Principal.UserID)),
	)

	var (
		locked *book.Book
		log    *borrow.BorrowLog
		after  *book.Book
	)
	txErr := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookRepo.LockByID(txCtx, bookID)
		if err != nil {
			return err
		}
		if !b.Available() {
			return borrow.ErrOutOfStock
		}

		if err := uc.bookRepo.DecrementStock(txCtx, bookID); err != nil {
			if errors.Is(err, book.ErrNoStockLeft) {
				return borrow.ErrOutOfStock
			}
			return err
		}

		l := borrow.NewBorrowLog(req.Principal.UserID, bookID, lat, long, uc.now())
		if err := uc.borrowRepo.Create(txCtx, l); err != nil {
			return err
		}

		// 读回事务内的权威库存,而不是用锁定时的值减1
		a, err := uc.bookRepo.FindByID(txCtx, bookID)
		if err != nil {
			return err
		}

		locked, log, after = b, l, a
		return nil
	})
	if txErr != nil {
		return nil, uc.classify(bookID, req.Principal.UserID, txErr)
	}

	resp = &BorrowBookResponse{
		BorrowID:   log.ID,
		UserID:     log.UserID,
		BookID:     log.BookID,
		BookTitle:  locked.Title,
		BorrowDate: log.BorrowDate,
		Location: Location{
			Latitude:  log.Latitude,
			Longitude: log.Longitude,
		},
		RemainingStock: after.Stock,
	}

	uc.afterCommit(ctx, resp)
	return resp, nil
}

// classify 把事务错误映射为对外错误
func (uc *BorrowBookUseCase) classify(bookID, userID uint, err error) error {
	switch {
	case errors.Is(err, book.ErrBookNotFound):
		return book.NotFound(bookID)
	case errors.Is(err, borrow.ErrOutOfStock):
		return borrow.ErrOutOfStock
	}

	uc.logger.Error("borrow transaction failed",
		zap.Uint("book_id", bookID),
		zap.Uint("user_id", userID),
		zap.Error(err),
	)
	return apperrors.ErrTransactionFailed.WithCause(err)
}

// afterCommit 提交后的副作用,失败只记日志,不影响借阅结果
func (uc *BorrowBookUseCase) afterCommit(ctx context.Context, resp *BorrowBookResponse) {
	if err := uc.cache.Invalidate(ctx, resp.BookID); err != nil {
		uc.logger.Warn("invalidate book cache failed",
			zap.Uint("book_id", resp.BookID),
			zap.Error(err),
		)
	}

	event := borrow.BorrowedEvent{
		BorrowID:       resp.BorrowID,
		UserID:         resp.UserID,
		BookID:         resp.BookID,
		BookTitle:      resp.BookTitle,
		Latitude:       resp.Location.Latitude,
		Longitude:      resp.Location.Longitude,
		RemainingStock: resp.RemainingStock,
		BorrowedAt:     resp.BorrowDate,
	}
	if err := uc.publisher.PublishBorrowed(ctx, event); err != nil {
		uc.logger.Warn("publish borrow event failed",
			zap.Uint("borrow_id", resp.BorrowID),
			zap.Error(err),
		)
	}

	uc.logger.Info("book borrowed",
		zap.Uint("borrow_id", resp.BorrowID),
		zap.Uint("book_id", resp.BookID),
		zap.Uint("user_id", resp.UserID),
		zap.Int("remaining_stock", resp.RemainingStock),
		zap.String("trace_id", tracing.ExtractTraceID(ctx)),
	)
}
