package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsersCollection is the mongo collection holding members
const UsersCollection = "users"

// Role of a member
type Role string

const (
	RoleCustomer Role = "customer"
	RoleTailor   Role = "tailor"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleTailor || r == RoleAdmin
}

// User represents a member keyed by their LINE user id (customer or tailor)
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LineUserID  string             `bson:"lineUserId" json:"lineUserId"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	PictureURL  string             `bson:"pictureUrl,omitempty" json:"pictureUrl,omitempty"`

	RealName string `bson:"realName,omitempty" json:"realName,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`

	Role      Role   `bson:"role" json:"role"`
	Specialty string `bson:"specialty,omitempty" json:"specialty,omitempty"` // tailors only
	IsActive  bool   `bson:"isActive" json:"isActive"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsTailor reports whether the member can be assigned jobs
func (u *User) IsTailor() bool {
	return u.Role == RoleTailor
}

// PromoteToTailor turns the member into an active tailor
func (u *User) PromoteToTailor(specialty string) {
	u.Role = RoleTailor
	u.Specialty = specialty
	u.IsActive = true
}

// DemoteToCustomer drops the tailor role in place
func (u *User) DemoteToCustomer() {
	u.Role = RoleCustomer
	u.Specialty = ""
}

// Name is the best label for messages: real name, then display name
func (u *User) Name() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.DisplayName
}
