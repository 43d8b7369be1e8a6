// Package models defines the persistent data structures managed by the
// server-side repositories.
package models

import "time"

// UserRole enumerates system-wide user roles.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// AccountStatus is the lifecycle status of a user account.
type AccountStatus string

const (
	StatusActive  AccountStatus = "ACTIVE"
	StatusBlocked AccountStatus = "BLOCKED"
)

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User is an account record. Exactly one of PasswordHash (local accounts) or
// ProviderID (federated accounts) is set; email is globally unique regardless
// of provider.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       AccountStatus
	AuthProvider AuthProvider
	ProviderID   string
	CreatedAt    time.Time
}
