package models

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/identity"
)

// AdminUserModel is the persistence model for AdminUser
type AdminUserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	FullName     string        `gorm:"type:varchar(200)"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	IsActive     bool          `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AdminUserModel) TableName() string {
	return "admin_users"
}

// ToDomain converts the persistence model to a domain entity
func (m *AdminUserModel) ToDomain() *identity.AdminUser {
	return &identity.AdminUser{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		FullName:          m.FullName,
		Role:              m.Role,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// AdminUserModelFromDomain converts a domain entity to the persistence model
func AdminUserModelFromDomain(e *identity.AdminUser) *AdminUserModel {
	m := &AdminUserModel{
		Username:     e.Username,
		PasswordHash: e.PasswordHash,
		FullName:     e.FullName,
		Role:         e.Role,
		IsActive:     e.IsActive,
		LastLoginAt:  utcPtr(e.LastLoginAt),
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}
