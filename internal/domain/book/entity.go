package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// 不变式:
// 1. Title、Author去掉首尾空白后不能为空
// 2. Stock >= 0,只能由管理员修改或借阅事务减1
type Book struct {
	ID        uint
	Title     string
	Author    string
	Stock     int // 可借数量
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// stock为nil时默认为0
func NewBook(title, author string, stock *int) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, ErrAuthorRequired
	}

	n := 0
	if stock != nil {
		n = *stock
	}
	if n < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now()
	return &Book{
		Title:     title,
		Author:    author,
		Stock:     n,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Changes 部分更新,nil字段保持原值
type Changes struct {
	Title  *string
	Author *string
	Stock  *int
}

// Empty 没有任何字段需要修改
func (c Changes) Empty() bool {
	return c.Title == nil && c.Author == nil && c.Stock == nil
}

// Validate 校验修改内容,不修改实体
func (c Changes) Validate() error {
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return ErrTitleEmpty
	}
	if c.Author != nil && strings.TrimSpace(*c.Author) == "" {
		return ErrAuthorEmpty
	}
	if c.Stock != nil && *c.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Apply 应用部分更新(领域行为)
// 校验失败时实体保持不变
func (b *Book) Apply(c Changes) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Title != nil {
		b.Title = strings.TrimSpace(*c.Title)
	}
	if c.Author != nil {
		b.Author = strings.TrimSpace(*c.Author)
	}
	if c.Stock != nil {
		b.Stock = *c.Stock
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Available 是否还有可借库存
func (b *Book) Available() bool {
	return b.Stock > 0
}
