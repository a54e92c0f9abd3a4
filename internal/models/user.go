package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRole enumerates access roles carried by provisioned identities.
type UserRole string

const (
	RoleStudent  UserRole = "STUDENT"
	RoleEmployee UserRole = "EMPLOYEE"
	RoleAdmin    UserRole = "ADMIN"
)

// User is an identity provisioned out of band and matched by Google email.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string        `bson:"email" json:"email"`
	FullName  string        `bson:"fullName" json:"fullName"`
	Role      UserRole      `bson:"role" json:"role"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// EffectiveRole defaults identities imported without a role to EMPLOYEE,
// since only ceremony staff are provisioned.
func (u *User) EffectiveRole() UserRole {
	if u.Role == "" {
		return RoleEmployee
	}
	return u.Role
}
