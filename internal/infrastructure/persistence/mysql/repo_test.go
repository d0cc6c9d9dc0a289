package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedBook(t *testing.T, repo book.Repository, title string, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(title, "Pramoedya Ananta Toer", &stock)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, repo, "Bumi Manusia", 3)
	assert.NotZero(t, b.ID)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bumi Manusia", got.Title)
	assert.Equal(t, 3, got.Stock)

	got.Stock = 0
	got.Title = "Anak Semua Bangsa"
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anak Semua Bangsa", got.Title)
	assert.Equal(t, 0, got.Stock)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)
}

func TestBookRepository_ListOrderedByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)

	for _, title := range []string{"C", "A", "B"} {
		seedBook(t, repo, title, 1)
	}

	books, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{books[0].Title, books[1].Title, books[2].Title})
	assert.Less(t, books[0].ID, books[1].ID)
	assert.Less(t, books[1].ID, books[2].ID)
}

func TestBookRepository_DecrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, repo, "Gadis Kretek", 1)

	require.NoError(t, repo.DecrementStock(ctx, b.ID))
	assert.ErrorIs(t, repo.DecrementStock(ctx, b.ID), book.ErrNoStockLeft)
	assert.ErrorIs(t, repo.DecrementStock(ctx, 999), book.ErrNoStockLeft)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock, "库存不能被扣成负数")
}

func TestBorrowLogRepository(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	logs := NewBorrowLogRepository(db)
	ctx := context.Background()

	b := seedBook(t, books, "Saman", 5)
	other := seedBook(t, books, "Larung", 5)

	for i := 0; i < 3; i++ {
		l := borrow.NewBorrowLog(7, b.ID, -6.2, 106.8, time.Now())
		require.NoError(t, logs.Create(ctx, l))
		assert.NotZero(t, l.ID)
	}
	require.NoError(t, logs.Create(ctx, borrow.NewBorrowLog(8, other.ID, 0, 0, time.Now())))

	count, err := logs.CountByBookID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := logs.DeleteByBookID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err = logs.CountByBookID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "其他图书的借阅记录不受影响")
}

func TestBorrowLogRepository_ForeignKey(t *testing.T) {
	db := newTestDB(t)
	logs := NewBorrowLogRepository(db)

	err := logs.Create(context.Background(), borrow.NewBorrowLog(1, 404, 0, 0, time.Now()))
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestBookDelete_CascadesAtDatabaseLevel(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	logs := NewBorrowLogRepository(db)
	ctx := context.Background()

	b := seedBook(t, books, "Ca Bau Kan", 2)
	require.NoError(t, logs.Create(ctx, borrow.NewBorrowLog(1, b.ID, 1, 1, time.Now())))

	// 直接删除图书,外键ON DELETE CASCADE清理借阅记录
	require.NoError(t, books.Delete(ctx, b.ID))

	count, err := logs.CountByBookID(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db)
	books := NewBookRepository(db)
	logs := NewBorrowLogRepository(db)
	ctx := context.Background()

	b := seedBook(t, books, "Amba", 1)
	boom := errors.New("boom")

	err := tm.Transaction(ctx, func(txCtx context.Context) error {
		if _, err := books.LockByID(txCtx, b.ID); err != nil {
			return err
		}
		if err := books.DecrementStock(txCtx, b.ID); err != nil {
			return err
		}
		if err := logs.Create(txCtx, borrow.NewBorrowLog(1, b.ID, 0, 0, time.Now())); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock, "回滚后库存不变")

	count, err := logs.CountByBookID(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "回滚后没有借阅记录")
}

func TestPinger(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, NewPinger(db).Ping(context.Background()))
}
