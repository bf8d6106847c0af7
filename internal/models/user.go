package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is a credential record. PasswordHash never leaves the service layer.
type User struct {
	ID           int        `json:"id" db:"id" example:"1"`
	FirstName    string     `json:"firstName" db:"first_name" example:"John"`
	LastName     string     `json:"lastName" db:"last_name" example:"Doe"`
	Email        string     `json:"email" db:"email" example:"john@example.com"`
	PasswordHash string     `json:"-" db:"password"`
	PhoneNumber  string     `json:"phoneNumber" db:"phone_number" example:"+15555550100"`
	Address      string     `json:"address" db:"address"`
	City         string     `json:"city" db:"city"`
	State        string     `json:"state" db:"state"`
	ZipCode      string     `json:"zipCode" db:"zip_code"`
	Role         string     `json:"role" db:"role" example:"customer"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	Account *AccountSummary `json:"account,omitempty"`
}

// UserRef is the owner projection embedded in account responses.
type UserRef struct {
	ID          int    `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}
