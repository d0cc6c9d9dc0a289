package borrow

import "time"

// 经纬度取值范围
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// BorrowLog 借阅记录
// 只由借阅事务创建,创建后不再修改;随图书删除而级联删除
type BorrowLog struct {
	ID         uint
	UserID     uint
	BookID     uint
	BorrowDate time.Time
	Latitude   float64
	Longitude  float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBorrowLog 创建借阅记录
// 坐标必须已经通过Command校验
func NewBorrowLog(userID, bookID uint, latitude, longitude float64, at time.Time) *BorrowLog {
	return &BorrowLog{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: at,
		Latitude:   latitude,
		Longitude:  longitude,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}
