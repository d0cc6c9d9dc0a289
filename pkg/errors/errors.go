package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，前三位即HTTP状态码（40401 → 404）
// 2. Kind()是给调用方程序判断用的错误类别（MissingField、OutOfStock等）
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同错误码即视为同一类错误
// 这样WithMessage派生出的错误仍然可以用errors.Is(err, ErrXxx)判断
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Kind 机器可读的错误类别
func (e *AppError) Kind() Kind {
	if k, ok := kindByCode[e.Code]; ok {
		return k
	}
	switch e.HTTPStatus() {
	case 400:
		return KindInvalidParams
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	default:
		return KindInternal
	}
}

// HTTPStatus 错误码对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 400 || status > 599 {
		return 500
	}
	return status
}

// WithMessage 复制一份错误并替换提示信息（错误码不变）
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, Err: e.Err}
}

// WithCause 复制一份错误并附带内部原因
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误类别
// =========================================

// Kind 错误类别，随响应一起返回给调用方
type Kind string

const (
	KindInvalidParams     Kind = "InvalidParams"
	KindMissingField      Kind = "MissingField"
	KindInvalidCoordinate Kind = "InvalidCoordinate"
	KindForbidden         Kind = "Forbidden"
	KindNotFound          Kind = "NotFound"
	KindBookNotFound      Kind = "BookNotFound"
	KindConflict          Kind = "Conflict"
	KindOutOfStock        Kind = "OutOfStock"
	KindInternal          Kind = "Internal"
	KindTransactionFailed Kind = "TransactionFailed"
)

// =========================================
// 错误码定义
// =========================================
// 规范：错误码 / 100 = HTTP状态码
// - 400xx: 参数错误
// - 403xx: 无权限
// - 404xx: 资源不存在
// - 409xx: 业务冲突（库存不足等）
// - 500xx: 服务端错误

const (
	// 参数错误（40000-40099）
	ErrCodeInvalidParams     = 40000 // 参数错误(通用)
	ErrCodeMissingField      = 40001 // 缺少必填字段
	ErrCodeInvalidCoordinate = 40002 // 经纬度超出范围
	ErrCodeBindError         = 40003 // 参数绑定失败

	// 权限错误（40300-40399）
	ErrCodeForbidden = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound = 40401 // 图书不存在

	// 业务冲突（40900-40999）
	ErrCodeConflict   = 40900 // 业务冲突(通用)
	ErrCodeOutOfStock = 40901 // 库存不足

	// 系统级错误码（50000-50099）
	ErrCodeInternal          = 50000 // 内部错误
	ErrCodeTransactionFailed = 50001 // 事务执行失败
	ErrCodeRedisError        = 50002 // Redis错误
)

var kindByCode = map[int]Kind{
	ErrCodeInvalidParams:     KindInvalidParams,
	ErrCodeMissingField:      KindMissingField,
	ErrCodeInvalidCoordinate: KindInvalidCoordinate,
	ErrCodeBindError:         KindInvalidParams,
	ErrCodeForbidden:         KindForbidden,
	ErrCodeNotFound:          KindNotFound,
	ErrCodeBookNotFound:      KindBookNotFound,
	ErrCodeConflict:          KindConflict,
	ErrCodeOutOfStock:        KindOutOfStock,
	ErrCodeInternal:          KindInternal,
	ErrCodeTransactionFailed: KindTransactionFailed,
	ErrCodeRedisError:        KindInternal,
}

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal          = New(ErrCodeInternal, "Internal server error")
	ErrTransactionFailed = New(ErrCodeTransactionFailed, "Error borrowing book")
	ErrRedisError        = New(ErrCodeRedisError, "Cache service error")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Malformed request body")

	// 权限
	ErrForbidden = New(ErrCodeForbidden, "Access denied")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "Endpoint not found")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}

// KindOf 返回错误类别，nil返回空串
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return GetAppError(err).Kind()
}
