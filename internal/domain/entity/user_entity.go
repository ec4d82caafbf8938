package entity

import (
	"strings"
	"time"
)

// UserRole is the account type chosen at registration.
type UserRole string

const (
	RoleInvestor UserRole = "Investor"
	RoleBusiness UserRole = "Business"
)

// ParseUserRole normalizes a user-supplied role. Matching is case-insensitive;
// anything other than the two known roles is rejected.
func ParseUserRole(s string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "investor":
		return RoleInvestor, true
	case "business":
		return RoleBusiness, true
	default:
		return "", false
	}
}

// User is the aggregate root for accounts.
// Password holds a bcrypt hash.
type User struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Password          string
	Role              UserRole
	Paid              bool
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time
	Nationality       string
	AvatarURL         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Entitled reports whether the user holds a live paid subscription at now.
func (u *User) Entitled(now time.Time) bool {
	return IsEntitled(u.Paid, u.SubscriptionEnd, now)
}

// UserCard is the public projection of a user joined into other resources.
type UserCard struct {
	ID        string `json:"id"`
	FirstName string `json:"f_n"`
	LastName  string `json:"l_n"`
	AvatarURL string `json:"avatar"`
}

func (u *User) Card() UserCard {
	return UserCard{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, AvatarURL: u.AvatarURL}
}
