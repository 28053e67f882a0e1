package models

import "time"

type Role string

const (
	RoleManager Role = "gestor"
	RoleMember  Role = "membro"
)

type Profile struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	AvatarURL    string    `gorm:"type:varchar(1024)" json:"avatar_url"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'membro'" json:"role"`
	TeamID       *uint64   `gorm:"index" json:"team_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsManager reports whether the profile is implicitly a member of every team.
func (p Profile) IsManager() bool {
	return p.Role == RoleManager
}
