package models

// Permission names a capability a caller may hold. Report entry points each
// declare the permission they require; the check happens in middleware, the
// engine itself never authorizes.
type Permission string

const (
	PermViewCompletionReports Permission = "reports.completion.view"
	PermViewProgressReports   Permission = "reports.progress.view"
	PermViewQuizReports       Permission = "reports.quiz.view"
	PermViewEngagementReports Permission = "reports.engagement.view"
	PermExportReports         Permission = "reports.export"
	PermViewSystemMetrics     Permission = "system.metrics.view"
)

// RolePermissions is the static role to permission grant map.
var RolePermissions = map[UserRole][]Permission{
	RoleAdmin: {
		PermViewCompletionReports,
		PermViewProgressReports,
		PermViewQuizReports,
		PermViewEngagementReports,
		PermExportReports,
		PermViewSystemMetrics,
	},
	RoleTeacher: {
		PermViewCompletionReports,
		PermViewProgressReports,
		PermViewQuizReports,
		PermViewEngagementReports,
		PermExportReports,
	},
	RoleStudent: {},
}

// CallerContext identifies the authenticated caller and the permissions
// granted to them. It is built once from verified claims and passed
// explicitly; nothing reads ambient session state.
type CallerContext struct {
	UserID      string       `json:"user_id"`
	Role        UserRole     `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// NewCallerContext resolves the role's grants into a caller context.
func NewCallerContext(userID string, role UserRole) CallerContext {
	grants := RolePermissions[role]
	perms := make([]Permission, len(grants))
	copy(perms, grants)
	return CallerContext{UserID: userID, Role: role, Permissions: perms}
}

// HasPermission reports whether the caller holds the named permission.
func (c CallerContext) HasPermission(perm Permission) bool {
	for _, granted := range c.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the caller holds at least one of the
// named permissions.
func (c CallerContext) HasAnyPermission(perms ...Permission) bool {
	for _, perm := range perms {
		if c.HasPermission(perm) {
			return true
		}
	}
	return false
}
