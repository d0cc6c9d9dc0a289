package mysql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，生产环境使用MySQL
// 2. driver=sqlite用于本地单机运行，单连接串行化所有事务
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. auto_migrate=true时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		db, err = OpenSQLite(cfg.Database.SQLitePath, gormCfg)
	default:
		db, err = openMySQL(cfg.Database, gormCfg)
	}
	if err != nil {
		return nil, err
	}

	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func openMySQL(cfg config.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	return db, nil
}

// OpenSQLite 打开SQLite数据库（path为":memory:"时是内存库）
//
// SQLite没有行锁，FOR UPDATE会被忽略；
// 连接池固定为1个连接，所有事务串行执行，同样保证库存不会被并发扣成负数。
// 事务内的所有查询都必须走事务句柄，否则会等待唯一的连接而死锁。
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}

	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	// 内存库随最后一个连接关闭而消失
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// Migrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&BorrowLogModel{},
	)
}

// Pinger 检查数据库连通性（gRPC健康检查使用）
type Pinger struct {
	db *gorm.DB
}

// NewPinger 创建Pinger
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Ping 执行一次数据库ping
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// BookModel GORM图书模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/book/entity.go是领域实体，不依赖GORM
// 3. 物理删除，不使用DeletedAt（借阅记录随之级联删除）
type BookModel struct {
	ID         uint             `gorm:"primaryKey"`
	Title      string           `gorm:"size:255;not null;comment:书名"`
	Author     string           `gorm:"size:255;not null;comment:作者"`
	Stock      int              `gorm:"not null;default:0;comment:可借数量"`
	BorrowLogs []BorrowLogModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"` // 一对多关联
	CreatedAt  time.Time        `gorm:"comment:创建时间"`
	UpdatedAt  time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BorrowLogModel GORM借阅记录模型
// book_id外键引用books.id，ON DELETE CASCADE
type BorrowLogModel struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null;comment:借阅用户ID"`
	BookID     uint      `gorm:"index;not null;comment:图书ID"`
	BorrowDate time.Time `gorm:"not null;comment:借阅时间"`
	Latitude   float64   `gorm:"not null;comment:纬度"`
	Longitude  float64   `gorm:"not null;comment:经度"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BorrowLogModel) TableName() string {
	return "borrow_logs"
}
