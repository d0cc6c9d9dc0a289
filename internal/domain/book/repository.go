package book

import (
	"context"
	"errors"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都从ctx中取事务句柄,在TxManager.Transaction内调用即参与同一事务
type Repository interface {
	// Create 创建图书,回填ID
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// List 全部图书,按ID升序
	List(ctx context.Context) ([]*Book, error)

	// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)
	// 借阅和管理员修改都必须先锁行,保证对同一本书串行
	LockByID(ctx context.Context, id uint) (*Book, error)

	// Update 保存title、author、stock
	Update(ctx context.Context, book *Book) error

	// DecrementStock 条件扣减:UPDATE books SET stock = stock - 1 WHERE id = ? AND stock > 0
	// 没有行被更新时返回ErrNoStockLeft
	DecrementStock(ctx context.Context, id uint) error

	// Delete 删除图书(物理删除)
	Delete(ctx context.Context, id uint) error
}

// ErrNoStockLeft 条件扣减没有命中任何行
var ErrNoStockLeft = errors.New("no stock left to decrement")

// ErrCacheMiss 缓存中没有该条目
var ErrCacheMiss = errors.New("book cache miss")

// Cache 图书读缓存(cache-aside)
// 写路径只负责失效,不负责回填
type Cache interface {
	Get(ctx context.Context, id uint) (*Book, error)
	Set(ctx context.Context, book *Book) error
	GetList(ctx context.Context) ([]*Book, error)
	SetList(ctx context.Context, books []*Book) error
	// Invalidate 删除指定图书和列表缓存
	Invalidate(ctx context.Context, ids ...uint) error
}

// NopCache 未启用Redis时使用,永远未命中
type NopCache struct{}

func (NopCache) Get(context.Context, uint) (*Book, error)  { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, *Book) error          { return nil }
func (NopCache) GetList(context.Context) ([]*Book, error)  { return nil, ErrCacheMiss }
func (NopCache) SetList(context.Context, []*Book) error    { return nil }
func (NopCache) Invalidate(context.Context, ...uint) error { return nil }
