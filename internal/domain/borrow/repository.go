package borrow

import (
	"context"
	"time"
)

// Repository 借阅记录仓储接口
// 借阅记录只追加,不提供Update
type Repository interface {
	// Create 创建借阅记录,回填ID
	Create(ctx context.Context, log *BorrowLog) error

	// CountByBookID 统计某本书的借阅记录数
	CountByBookID(ctx context.Context, bookID uint) (int64, error)

	// DeleteByBookID 删除某本书的全部借阅记录,返回删除条数
	DeleteByBookID(ctx context.Context, bookID uint) (int64, error)
}

// RoutingKeyBorrowed 借阅成功事件的routing key
const RoutingKeyBorrowed = "book.borrowed"

// BorrowedEvent 借阅成功事件,事务提交后发布
type BorrowedEvent struct {
	EventID        string    `json:"eventId"`
	BorrowID       uint      `json:"borrowId"`
	UserID         uint      `json:"userId"`
	BookID         uint      `json:"bookId"`
	BookTitle      string    `json:"bookTitle"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	RemainingStock int       `json:"remainingStock"`
	BorrowedAt     time.Time `json:"borrowedAt"`
}

// EventPublisher 借阅事件发布接口
// 发布失败不影响已经提交的借阅
type EventPublisher interface {
	PublishBorrowed(ctx context.Context, event BorrowedEvent) error
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) PublishBorrowed(context.Context, BorrowedEvent) error { return nil }
