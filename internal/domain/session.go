package domain

import "time"

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleCustomer  Role = "customer"
	RolePartner   Role = "partner"
	RoleAdmin     Role = "admin"
)

func (r Role) IsStaff() bool {
	return r == RolePartner || r == RoleAdmin
}

// Session is the server-side record behind a session token. The role
// is whatever the account row says, resolved on every lookup; the
// client never supplies it.
type Session struct {
	Token      string    `json:"token"`
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
