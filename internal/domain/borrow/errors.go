package borrow

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrBookIDRequired 缺少bookId
	ErrBookIDRequired = apperrors.New(apperrors.ErrCodeMissingField, "bookId is required")

	// ErrCoordinatesRequired 缺少经纬度
	ErrCoordinatesRequired = apperrors.New(apperrors.ErrCodeMissingField, "latitude and longitude are required")

	// ErrInvalidLatitude 纬度越界
	ErrInvalidLatitude = apperrors.New(apperrors.ErrCodeInvalidCoordinate, "Invalid latitude. Must be between -90 and 90")

	// ErrInvalidLongitude 经度越界
	ErrInvalidLongitude = apperrors.New(apperrors.ErrCodeInvalidCoordinate, "Invalid longitude. Must be between -180 and 180")

	// ErrOutOfStock 库存为0
	ErrOutOfStock = apperrors.New(apperrors.ErrCodeOutOfStock, "Book is out of stock")

	// ErrNotAllowed 调用方不是带用户ID的普通用户
	ErrNotAllowed = apperrors.New(apperrors.ErrCodeForbidden, "Access denied. User privileges required.")
)
