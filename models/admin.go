package models

import "time"

// Admin is a back-office user. PasswordHash and TokenHash never serialize
// to JSON.
type Admin struct {
	ID           string     `bson:"id" json:"id"`
	FirstName    string     `bson:"first_name" json:"firstName"`
	MiddleName   string     `bson:"middle_name,omitempty" json:"middleName,omitempty"`
	LastName     string     `bson:"last_name" json:"lastName"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Role         string     `bson:"role" json:"role"` // admin, superadmin
	IsActive     bool       `bson:"is_active" json:"isActive"`
	TokenHash    string     `bson:"token_hash,omitempty" json:"-"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updatedAt"`
}

// FullName joins the admin's name parts, skipping an empty middle name.
func (a Admin) FullName() string {
	if a.MiddleName != "" {
		return a.FirstName + " " + a.MiddleName + " " + a.LastName
	}
	return a.FirstName + " " + a.LastName
}
