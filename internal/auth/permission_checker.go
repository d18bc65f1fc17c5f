package auth

import "context"

type PermissionChecker interface {
	CanRecordDues(userPermissions []string) bool
	CanManageResidents(userPermissions []string) bool
	CanManageCash(userPermissions []string) bool
	CanManageSettings(userPermissions []string) bool
	CanManageBackup(userPermissions []string) bool
	CanViewReports(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsTreasurer(userPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission}), nil
}

func (c *DefaultPermissionChecker) CanRecordDuesCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanRecordDues(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanManageCashCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.CanManageCash(userPermissions), nil
}

func (c *DefaultPermissionChecker) IsTreasurerCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsTreasurer(userPermissions), nil
}

func (c *DefaultPermissionChecker) IsAdminCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsAdmin(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanRecordDues(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermRecordDues, PermTreasurer, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageResidents(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageResidents, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageCash(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageCash, PermTreasurer, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageSettings(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageSettings, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageBackup(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageBackup, PermAdmin})
}

// CanViewReports covers the read side: the payment matrix, arrears
// summaries and the cash report. Anyone on the committee gets it.
func (c *DefaultPermissionChecker) CanViewReports(userPermissions []string) bool {
	viewerPerms := []string{PermViewReports, PermRecordDues, PermManageCash, PermTreasurer, PermAdmin}
	return c.HasAnyPermission(userPermissions, viewerPerms)
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsTreasurer(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermTreasurer, PermAdmin})
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermAdmin})
}
