// Package domain contains entities without logic, just meta-data.
package domain

import "github.com/google/uuid"

// ClientID identifies one live connection for its lifetime. It is
// generated fresh at connect time and never reused across reconnects.
type ClientID string

// NewClientID returns a 128-bit random identifier. Random so peers
// cannot enumerate or guess each other's sessions.
func NewClientID() ClientID {
	return ClientID(uuid.NewString())
}

const (
	RoleGuest   = "guest"
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Identity is the verified-identity input produced upstream (auth
// middleware). The realtime layer trusts it as-is and never re-verifies.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Anonymous is the identity attached to connections that carry no
// credential. The relay itself is auth-agnostic.
func Anonymous() Identity {
	return Identity{UserID: "", Role: RoleGuest}
}
