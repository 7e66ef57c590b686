// Package security provides authorization: roles, capabilities and the policy
// that maps one onto the other.
package security

import (
	"inventrack/internal/core/apperror"
)

// Capability is a single permitted action.
type Capability string

const (
	CapViewLedger     Capability = "ledger:read"
	CapViewOperations Capability = "operations:read"
	CapRecordStock    Capability = "stock:record"
	CapManageCatalog  Capability = "catalog:manage"
	CapSubmitSupply   Capability = "supply:submit"
	CapDecideSupply   Capability = "supply:decide"
	CapCompleteSupply Capability = "supply:complete"
	CapManageAccounts Capability = "accounts:manage"
	CapRecordPayment  Capability = "payment:record"
	CapViewAnalytics  Capability = "analytics:read"
	CapRecordActivity Capability = "activity:record"
)

// Authorizer decides whether an actor may use a capability.
type Authorizer interface {
	Authorize(actor Actor, capability Capability) error
}

// Policy is a static role -> capabilities table.
type Policy struct {
	grants map[Role]map[Capability]struct{}
}

// NewPolicy builds a policy from a role -> capabilities table.
func NewPolicy(table map[Role][]Capability) *Policy {
	p := &Policy{grants: make(map[Role]map[Capability]struct{}, len(table))}
	for role, caps := range table {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		p.grants[role] = set
	}
	return p
}

// DefaultPolicy returns the standard grants.
// Clerks run the shop floor; decisions on supply and money stay with admins.
// Users see the catalog and stock but not supply requests or payments.
func DefaultPolicy() *Policy {
	return NewPolicy(map[Role][]Capability{
		RoleAdmin: {
			CapViewLedger, CapViewOperations, CapRecordStock, CapManageCatalog,
			CapSubmitSupply, CapDecideSupply, CapCompleteSupply,
			CapManageAccounts, CapRecordPayment, CapViewAnalytics, CapRecordActivity,
		},
		RoleClerk: {
			CapViewLedger, CapViewOperations, CapRecordStock, CapSubmitSupply,
			CapViewAnalytics, CapRecordActivity,
		},
		RoleUser: {
			CapViewLedger, CapViewAnalytics, CapRecordActivity,
		},
	})
}

// Allows reports whether role holds capability.
func (p *Policy) Allows(role Role, capability Capability) bool {
	_, ok := p.grants[role][capability]
	return ok
}

// Authorize implements Authorizer.
func (p *Policy) Authorize(actor Actor, capability Capability) error {
	if actor.IsAnonymous() {
		return apperror.NewUnauthorized("authentication required")
	}
	if !p.Allows(actor.Role, capability) {
		return apperror.NewForbidden("insufficient permissions").
			WithDetail("required_capability", capability).
			WithDetail("role", actor.Role)
	}
	return nil
}
