package identity

import (
	"sort"
	"strings"

	"github.com/clube/backend/internal/domain/shared"
)

// Role is the fixed staff profile of a user
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFinance Role = "FINANCE"
	RoleStaff   Role = "STAFF"
)

// Permission actions, matching the HTTP method mapping of the permission middleware
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Protected resources
const (
	ResourceMembers      = "members"
	ResourceCategories   = "categories"
	ResourceAffiliations = "affiliations"
	ResourceDues         = "dues"
	ResourceFinance      = "finance"
	ResourceReports      = "reports"
	ResourceEvents       = "events"
	ResourceCollection   = "collection"
	ResourceSuppliers    = "suppliers"
	ResourceUsers        = "users"
)

var (
	allActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	readOnly   = []string{ActionRead}

	allResources = []string{
		ResourceMembers, ResourceCategories, ResourceAffiliations, ResourceDues, ResourceFinance,
		ResourceReports, ResourceEvents, ResourceCollection, ResourceSuppliers, ResourceUsers,
	}

	rolePermissions = map[Role]map[string][]string{
		RoleFinance: {
			ResourceMembers:      readOnly,
			ResourceCategories:   readOnly,
			ResourceAffiliations: readOnly,
			ResourceDues:         allActions,
			ResourceFinance:      allActions,
			ResourceReports:      allActions,
			ResourceCollection:   allActions,
			ResourceSuppliers:    allActions,
		},
		RoleStaff: {
			ResourceMembers:      allActions,
			ResourceCategories:   readOnly,
			ResourceAffiliations: readOnly,
			ResourceEvents:       allActions,
			ResourceDues:         readOnly,
		},
	}
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleFinance || r == RoleStaff
}

// ParseRole parses a role name, case-insensitively
func ParseRole(value string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !r.IsValid() {
		return "", shared.NewValidationError("role", "Role must be ADMIN, FINANCE or STAFF")
	}
	return r, nil
}

// Permission builds a "resource:action" permission code
func Permission(resource, action string) string {
	return resource + ":" + action
}

// Permissions returns the sorted permission codes granted to the role
func (r Role) Permissions() []string {
	var perms []string
	if r == RoleAdmin {
		for _, res := range allResources {
			for _, a := range allActions {
				perms = append(perms, Permission(res, a))
			}
		}
	} else {
		for res, actions := range rolePermissions[r] {
			for _, a := range actions {
				perms = append(perms, Permission(res, a))
			}
		}
	}
	sort.Strings(perms)
	return perms
}

// Can reports whether the role grants action on resource
func (r Role) Can(resource, action string) bool {
	if r == RoleAdmin {
		return true
	}
	for _, a := range rolePermissions[r][resource] {
		if a == action {
			return true
		}
	}
	return false
}
