package dto

import (
	"time"

	appbook "github.com/xiebiao/library/internal/application/book"
)

// CreateBookRequest HTTP新增图书请求
// 字段规则(去空白后非空、库存非负)由领域层校验,保证错误信息一致
type CreateBookRequest struct {
	Title  string `json:"title" example:"Bumi Manusia"`
	Author string `json:"author" example:"Pramoedya Ananta Toer"`
	Stock  *int   `json:"stock" example:"5"` // 省略时为0
}

// UpdateBookRequest HTTP修改图书请求
// 指针字段区分"未提供"和"零值",省略的字段保持原值
type UpdateBookRequest struct {
	Title  *string `json:"title" example:"Anak Semua Bangsa"`
	Author *string `json:"author" example:"Pramoedya Ananta Toer"`
	Stock  *int    `json:"stock" example:"0"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID        uint      `json:"id" example:"1"`
	Title     string    `json:"title" example:"Bumi Manusia"`
	Author    string    `json:"author" example:"Pramoedya Ananta Toer"`
	Stock     int       `json:"stock" example:"5"`
	CreatedAt time.Time `json:"createdAt" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updatedAt" example:"2024-01-15T10:30:00Z"`
}

// DeleteBookResponse HTTP删除图书响应
type DeleteBookResponse struct {
	BookID            uint  `json:"bookId" example:"1"`
	DeletedBorrowLogs int64 `json:"deletedBorrowLogs" example:"2"`
}

// FromBook 应用层DTO → HTTP DTO
func FromBook(b *appbook.BookResponse) *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Stock:     b.Stock,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromBooks 列表转换,空列表返回[]而不是null
func FromBooks(books []*appbook.BookResponse) []*BookResponse {
	items := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, FromBook(b))
	}
	return items
}
