package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// CreateBookUseCase 新增图书用例
// 业务规则校验(书名、作者非空,库存非负)由领域服务负责
type CreateBookUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewCreateBookUseCase 创建新增用例
func NewCreateBookUseCase(bookService book.Service, logger *zap.Logger) *CreateBookUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateBookUseCase{bookService: bookService, logger: logger}
}

// CreateBookRequest 新增请求
// Stock为nil时默认为0
type CreateBookRequest struct {
	Title  string
	Author string
	Stock  *int
}

// Execute 执行新增
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (resp *BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "library/book", "CreateBook")
	defer func() { tracing.EndSpan(span, err) }()

	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.Stock)
	if err != nil {
		return nil, err
	}

	metrics.IncBookMutation("create")
	uc.logger.Info("book created", zap.Uint("book_id", b.ID), zap.Int("stock", b.Stock))
	return toResponse(b), nil
}
