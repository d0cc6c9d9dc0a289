package dto

import "time"

// BorrowRequest HTTP借阅请求
// 不使用binding tag:缺失和越界的判定顺序由领域Command统一决定
type BorrowRequest struct {
	BookID    *uint    `json:"bookId" example:"1"`
	Latitude  *float64 `json:"latitude" example:"-6.2088"`
	Longitude *float64 `json:"longitude" example:"106.8456"`
}

// LocationResponse 借阅地点
type LocationResponse struct {
	Latitude  float64 `json:"latitude" example:"-6.2088"`
	Longitude float64 `json:"longitude" example:"106.8456"`
}

// BorrowResponse HTTP借阅响应
type BorrowResponse struct {
	BorrowID       uint             `json:"borrowId" example:"10"`
	UserID         uint             `json:"userId" example:"7"`
	BookID         uint             `json:"bookId" example:"1"`
	BookTitle      string           `json:"bookTitle" example:"Bumi Manusia"`
	BorrowDate     time.Time        `json:"borrowDate" example:"2024-01-15T10:30:00Z"`
	Location       LocationResponse `json:"location"`
	RemainingStock int              `json:"remainingStock" example:"4"`
}
