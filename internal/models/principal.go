package models

import "clientdesk/internal/enums"

// Principal is the authenticated actor resolved by the external identity
// subsystem and handed to the core by the auth middleware.
type Principal struct {
	ID        uint
	Role      string
	FirstName string
	LastName  string
	Email     string
}

func (principal Principal) IsAdmin() bool {
	return principal.Role == enums.ROLE_ADMIN
}

func (principal Principal) FullName() string {
	return principal.FirstName + " " + principal.LastName
}
