package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// borrowLogRepository 借阅记录仓储实现
type borrowLogRepository struct {
	db *gorm.DB
}

// NewBorrowLogRepository 创建借阅记录仓储
func NewBorrowLogRepository(db *gorm.DB) borrow.Repository {
	return &borrowLogRepository{db: db}
}

// Create 创建借阅记录
// 外键约束失败说明图书在加锁之后被删除,按BookNotFound处理
func (r *borrowLogRepository) Create(ctx context.Context, l *borrow.BorrowLog) error {
	model := &BorrowLogModel{
		UserID:     l.UserID,
		BookID:     l.BookID,
		BorrowDate: l.BorrowDate,
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return book.NotFound(l.BookID)
		}
		return apperrors.Wrap(err, "Error creating borrow log")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// CountByBookID 统计某本书的借阅记录数
func (r *borrowLogRepository) CountByBookID(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&BorrowLogModel{}).Where("book_id = ?", bookID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "Error counting borrow logs")
	}
	return count, nil
}

// DeleteByBookID 删除某本书的全部借阅记录
func (r *borrowLogRepository) DeleteByBookID(ctx context.Context, bookID uint) (int64, error) {
	result := r.getDB(ctx).Where("book_id = ?", bookID).Delete(&BorrowLogModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "Error deleting borrow logs")
	}
	return result.RowsAffected, nil
}

// getDB 从context获取事务DB
func (r *borrowLogRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
