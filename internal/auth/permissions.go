package auth

// Admin roles.
const (
	RoleAdmin   = "admin"
	RoleFinance = "finance"
	RoleSales   = "sales"
)

// Permission names one guarded operation group on the API surface.
type Permission string

const (
	PermAdminsManage        Permission = "admins:manage"
	PermCoachesRead         Permission = "coaches:read"
	PermCoachesWrite        Permission = "coaches:write"
	PermPlansRead           Permission = "plans:read"
	PermPlansWrite          Permission = "plans:write"
	PermSubscriptionsRead   Permission = "subscriptions:read"
	PermSubscriptionsWrite  Permission = "subscriptions:write"
	PermPaymentsRead        Permission = "payments:read"
	PermPaymentsWrite       Permission = "payments:write"
	PermDashboardRead       Permission = "dashboard:read"
	PermNotificationsManage Permission = "notifications:manage"
)

// rolePermissions is the single source of truth for role gating. The admin
// role is implicitly allowed everything and is not listed here.
var rolePermissions = map[string]map[Permission]bool{
	RoleFinance: {
		PermPlansRead:     true,
		PermPaymentsRead:  true,
		PermDashboardRead: true,
	},
	RoleSales: {
		PermPlansRead:   true,
		PermCoachesRead: true,
	},
}

// Allowed reports whether the role may perform the operation.
func Allowed(role string, perm Permission) bool {
	if role == RoleAdmin {
		return true
	}
	return rolePermissions[role][perm]
}

// ValidRole reports whether the string is a known admin role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleFinance || role == RoleSales
}
