// Package auth carries the requester identity handed to this service by the
// external authentication layer. User accounts themselves are not managed here.
package auth

type Role string

const (
	RoleCustomer      Role = "customer"
	RoleFacilityAdmin Role = "facility_admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleFacilityAdmin:
		return true
	default:
		return false
	}
}
