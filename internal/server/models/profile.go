package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultDisplayName is used when the identity carries no name.
const DefaultDisplayName = "User"

// Profile is the per-user record holding the coin balance. Coins is never
// negative.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
	Coins       int64
	Role        Role
	CreatedAt   time.Time
}
