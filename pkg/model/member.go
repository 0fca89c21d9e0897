package model

import "strings"

// Member is a principal that can sign in to the gateway.
type Member struct {
	UserID string       `gorm:"column:user_id;primaryKey"`
	Pw     string       `gorm:"column:pw;not null"`
	Active bool         `gorm:"column:active;not null"`
	Roles  []MemberRole `gorm:"foreignKey:UserID;references:UserID"`
}

func (Member) TableName() string {
	return "nasa_members"
}

// PasswordHash returns the stored bcrypt hash without any "{bcrypt}" prefix.
func (m *Member) PasswordHash() []byte {
	return []byte(strings.TrimPrefix(m.Pw, "{bcrypt}"))
}

// RoleNames returns the role strings assigned to the member.
func (m *Member) RoleNames() []string {
	names := make([]string, 0, len(m.Roles))
	for _, r := range m.Roles {
		names = append(names, r.Role)
	}
	return names
}

// MemberRole assigns a single role to a member.
type MemberRole struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role;primaryKey"`
}

func (MemberRole) TableName() string {
	return "nasa_roles"
}
