package domain

import "time"

// Role identifies which identity class a caller belongs to.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// Citizen is a registered member of the public who files reports.
type Citizen struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  *string
	CreatedAt    time.Time
}

// Admin is an operator who triages reports. Admins live in their own table
// and are provisioned out of band.
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
