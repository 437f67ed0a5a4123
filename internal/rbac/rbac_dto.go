package rbac

type EnforceRequest struct {
	UserID   string
	Resource string
	Action   string
}

type UserRole struct {
	UserID string
	Role   string
}

type RolePermission struct {
	Role     string
	Resource string
	Action   string
}
