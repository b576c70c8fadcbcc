package models

import "strings"

// Role is the enumerated set of account roles.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Capability is a privileged action a role may be allowed to perform.
type Capability int

const (
	CapViewAnyStats Capability = iota + 1
	CapManageCompanies
	CapManageQRCodes
	CapApproveUsers
	CapGrantBonus
	CapManageRewards
	CapReviewRedemptions
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleEmployee: {},
	RoleManager: {
		CapManageQRCodes:     true,
		CapReviewRedemptions: true,
	},
	RoleAdmin: {
		CapViewAnyStats:      true,
		CapManageCompanies:   true,
		CapManageQRCodes:     true,
		CapApproveUsers:      true,
		CapGrantBonus:        true,
		CapManageRewards:     true,
		CapReviewRedemptions: true,
	},
}

// ParseRole maps free-form input onto a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleCapabilities[r]; !ok {
		return "", false
	}
	return r, true
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}
