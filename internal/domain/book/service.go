package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 负责不需要跨聚合事务的操作:创建、查询
// 2. 修改、删除需要与借阅记录在同一事务内完成,由应用层编排
// 3. 查询走cache-aside,缓存故障时直接读库,不影响结果
type Service interface {
	// CreateBook 创建图书
	// 业务规则:title、author去空白后非空;stock默认为0,不能为负
	CreateBook(ctx context.Context, title, author string, stock *int) (*Book, error)

	// GetBook 根据ID获取图书,不存在返回BookNotFound
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 全部图书,按ID升序
	ListBooks(ctx context.Context) ([]*Book, error)
}

// service 领域服务实现
type service struct {
	repo  Repository
	cache Cache
}

// NewService 创建图书领域服务
// cache为nil时不使用缓存
func NewService(repo Repository, cache Cache) Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) CreateBook(ctx context.Context, title, author string, stock *int) (*Book, error) {
	b, err := NewBook(title, author, stock)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// 新书改变了列表
	_ = s.cache.Invalidate(ctx)
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	if b, err := s.cache.Get(ctx, id); err == nil {
		return b, nil
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil, NotFound(id)
		}
		return nil, err
	}

	_ = s.cache.Set(ctx, b)
	return b, nil
}

func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	if books, err := s.cache.GetList(ctx); err == nil {
		return books, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetList(ctx, books)
	return books, nil
}
