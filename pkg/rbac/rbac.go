package rbac

// 权限常量
const (
	// 敏感操作权限
	PermissionRemoveMember = "project:member_remove"
	PermissionDeleteTask   = "task:delete"

	// 普通操作权限
	PermissionAddMember     = "project:member_add"
	PermissionCreateTask    = "task:create"
	PermissionUpdateTask    = "task:update"
	PermissionPostMessage   = "message:post"
	PermissionAddAttachment = "attachment:add"
)

// 角色常量
const (
	RoleMember = "member"
	RoleOwner  = "owner"
)

// 角色权限映射
var rolePermissions = map[string][]string{
	RoleMember: {
		PermissionAddMember,
		PermissionCreateTask,
		PermissionUpdateTask,
		PermissionPostMessage,
		PermissionAddAttachment,
	},
	RoleOwner: {
		PermissionAddMember,
		PermissionRemoveMember,
		PermissionCreateTask,
		PermissionUpdateTask,
		PermissionDeleteTask,
		PermissionPostMessage,
		PermissionAddAttachment,
	},
}

// HasPermission 检查角色是否有指定权限
func HasPermission(role string, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission 检查角色是否有指定权限（返回错误而不是布尔值，便于处理）
func CheckPermission(role string, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

// PermissionDeniedError 表示权限不足的错误
type PermissionDeniedError struct {
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
