package book

import (
	"fmt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrTitleRequired 创建时书名为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "Title is required and cannot be empty")

	// ErrAuthorRequired 创建时作者为空
	ErrAuthorRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "Author is required and cannot be empty")

	// ErrTitleEmpty 更新时书名为空串
	ErrTitleEmpty = apperrors.New(apperrors.ErrCodeInvalidParams, "Title cannot be empty")

	// ErrAuthorEmpty 更新时作者为空串
	ErrAuthorEmpty = apperrors.New(apperrors.ErrCodeInvalidParams, "Author cannot be empty")

	// ErrInvalidStock 库存为负数
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "Stock cannot be negative")
)

// NotFound 带图书ID的不存在错误
func NotFound(id uint) *apperrors.AppError {
	return ErrBookNotFound.WithMessage(fmt.Sprintf("Book with id %d not found", id))
}
