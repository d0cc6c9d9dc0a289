// Package book 馆藏管理用例
//
// 查询和创建直接委托领域服务;修改和删除要与借阅事务在同一行锁上串行,
// 由用例通过TxManager编排。所有写操作提交后都会失效缓存。
package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
)

// BookResponse 图书响应DTO
type BookResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Stock:     b.Stock,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// invalidate 失效缓存,失败只记日志
// 缓存有TTL兜底,不能因为Redis故障让已提交的写操作报错
func invalidate(ctx context.Context, cache book.Cache, logger *zap.Logger, id uint) {
	if err := cache.Invalidate(ctx, id); err != nil {
		logger.Warn("invalidate book cache failed", zap.Uint("book_id", id), zap.Error(err))
	}
}
