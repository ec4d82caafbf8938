package entity

import "time"

// DefaultOwnerRole is used when an inviter does not name a role.
const DefaultOwnerRole = "Owner"

// CompanyOwner is the ownership edge between a user and a company.
// Active=false is a pending invitation, Active=true a confirmed owner.
// A (UserID, CompanyID) pair has at most one row.
type CompanyOwner struct {
	RelID     string
	UserID    string
	CompanyID string
	Role      string
	Active    bool
	CreatedAt time.Time
}

// OwnerView is an active owner joined with its user profile.
type OwnerView struct {
	RelID     string `json:"rel_id"`
	UserID    string `json:"user_id"`
	FirstName string `json:"f_n"`
	LastName  string `json:"l_n"`
	AvatarURL string `json:"avatar"`
	Role      string `json:"role"`
}

// PendingInvitation is an inactive ownership row joined with its company.
type PendingInvitation struct {
	RelID     string      `json:"rel_id"`
	Role      string      `json:"role"`
	Company   CompanyCard `json:"company"`
	CreatedAt time.Time   `json:"created_at"`
}
