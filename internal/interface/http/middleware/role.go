package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/access"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// 身份请求头
// 由上游网关填写并保证可信,本服务不做签名校验
const (
	HeaderUserRole = "X-User-Role"
	HeaderUserID   = "X-User-Id"
)

var (
	errRoleHeaderRequired = apperrors.New(apperrors.ErrCodeForbidden, "Access denied. Header x-user-role is required.")
	errAdminRequired      = apperrors.New(apperrors.ErrCodeForbidden, "Access denied. Admin privileges required.")
	errUserRequired       = apperrors.New(apperrors.ErrCodeForbidden, "Access denied. User privileges required.")
	errUserIDRequired     = apperrors.New(apperrors.ErrCodeForbidden, "Access denied. Header x-user-id is required.")
)

// RequireAdmin 只允许管理员
//
//	books.POST("", middleware.RequireAdmin(), bookHandler.CreateBook)
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(HeaderUserRole)
		if role == "" {
			response.Abort(c, errRoleHeaderRequired)
			return
		}
		if access.Role(role) != access.RoleAdmin {
			response.Abort(c, errAdminRequired)
			return
		}

		setPrincipal(c, access.Principal{Role: access.RoleAdmin})
		c.Next()
	}
}

// RequireUser 只允许带用户ID的普通用户
// 检查顺序:角色头缺失 → 角色不是user → 用户ID缺失
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(HeaderUserRole)
		if role == "" {
			response.Abort(c, errRoleHeaderRequired)
			return
		}
		if access.Role(role) != access.RoleUser {
			response.Abort(c, errUserRequired)
			return
		}

		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			response.Abort(c, errUserIDRequired)
			return
		}
		// 非正整数的用户ID与缺失同样处理
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || id == 0 {
			response.Abort(c, errUserIDRequired)
			return
		}

		setPrincipal(c, access.Principal{UserID: uint(id), Role: access.RoleUser})
		c.Next()
	}
}

// GetPrincipal 从请求中取出调用方,未经过角色中间件时返回零值
func GetPrincipal(c *gin.Context) access.Principal {
	p, _ := access.FromContext(c.Request.Context())
	return p
}

func setPrincipal(c *gin.Context, p access.Principal) {
	c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), p))
}
