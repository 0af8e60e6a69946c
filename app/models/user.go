package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleAdmin    Role = "Admin"
)

// ParseRole maps a stored role string onto the enum, defaulting unknown
// values to Customer so a corrupt document can never grant admin access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleCustomer:
		return RoleCustomer
	default:
		return RoleCustomer
	}
}

// User is the account document. Password holds the bcrypt hash and is never
// serialised. Emails are stored lowercased and carry a unique index.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     Role               `bson:"role" json:"role"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`

	IsEmailVerified          bool       `bson:"isEmailVerified" json:"isEmailVerified"`
	VerificationToken        string     `bson:"verificationToken,omitempty" json:"-"`
	VerificationTokenExpires *time.Time `bson:"verificationTokenExpires,omitempty" json:"-"`

	Favorites []primitive.ObjectID `bson:"favorites,omitempty" json:"favorites,omitempty"`
	OrderRefs []primitive.ObjectID `bson:"orders,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}
