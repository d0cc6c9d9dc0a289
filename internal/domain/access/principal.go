// Package access 调用方身份与角色
//
// 身份由上游（HTTP中间件）从可信的请求头解析后注入，
// 领域层和用例只消费Principal，不再自行推导信任。
package access

import "context"

// Role 调用方角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal 已认证的调用方
type Principal struct {
	UserID uint
	Role   Role
}

// IsAdmin 是否可以管理馆藏
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanBorrow 只有带用户ID的普通用户可以借阅
func (p Principal) CanBorrow() bool {
	return p.Role == RoleUser && p.UserID != 0
}

type principalKey struct{}

// WithPrincipal 把Principal放入context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext 取出Principal，没有时ok为false
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
