package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key设计：
// - library:book:{id}  单本图书
// - library:books:all  全部图书列表（没有分页，只有一个key）
const (
	bookKeyPrefix = "library:book:"
	bookListKey   = "library:books:all"
)

// BookCache 图书读缓存（cache-aside）
// 设计说明：
// 1. 读路径：先查缓存，未命中再查库并回填
// 2. 写路径（借阅、修改、删除）：事务提交后删除缓存，不做回填
// 3. 缓存故障返回error，由调用方降级为直接读库
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{client: client, ttl: ttl}
}

// cachedBook 缓存中的图书结构，字段名固定，和领域实体解耦
type cachedBook struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Get 获取单本图书，未命中返回book.ErrCacheMiss
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	val, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IncCache("book", "miss")
			return nil, book.ErrCacheMiss
		}
		metrics.IncCache("book", "error")
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}

	var cb cachedBook
	if err := json.Unmarshal(val, &cb); err != nil {
		metrics.IncCache("book", "error")
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}

	metrics.IncCache("book", "hit")
	return fromCached(cb), nil
}

// Set 写入单本图书
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	val, err := json.Marshal(toCached(b))
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, bookKey(b.ID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// GetList 获取图书列表，未命中返回book.ErrCacheMiss
func (c *BookCache) GetList(ctx context.Context) ([]*book.Book, error) {
	val, err := c.client.Get(ctx, bookListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.IncCache("list", "miss")
			return nil, book.ErrCacheMiss
		}
		metrics.IncCache("list", "error")
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}

	var cached []cachedBook
	if err := json.Unmarshal(val, &cached); err != nil {
		metrics.IncCache("list", "error")
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}

	books := make([]*book.Book, len(cached))
	for i, cb := range cached {
		books[i] = fromCached(cb)
	}
	metrics.IncCache("list", "hit")
	return books, nil
}

// SetList 写入图书列表
func (c *BookCache) SetList(ctx context.Context, books []*book.Book) error {
	cached := make([]cachedBook, len(books))
	for i, b := range books {
		cached[i] = toCached(b)
	}

	val, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, bookListKey, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// Invalidate 删除指定图书和列表缓存
// 使用UNLINK异步删除，不阻塞Redis
func (c *BookCache) Invalidate(ctx context.Context, ids ...uint) error {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, bookListKey)
	for _, id := range ids {
		keys = append(keys, bookKey(id))
	}

	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除缓存失败: %w", err)
	}
	return nil
}

func bookKey(id uint) string {
	return fmt.Sprintf("%s%d", bookKeyPrefix, id)
}

func toCached(b *book.Book) cachedBook {
	return cachedBook{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Stock:     b.Stock,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func fromCached(cb cachedBook) *book.Book {
	return &book.Book{
		ID:        cb.ID,
		Title:     cb.Title,
		Author:    cb.Author,
		Stock:     cb.Stock,
		CreatedAt: cb.CreatedAt,
		UpdatedAt: cb.UpdatedAt,
	}
}
