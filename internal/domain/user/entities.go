package user

import "time"

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAgent || r == RoleAdmin
}

// Staff roles may review any application.
func (r Role) Staff() bool { return r == RoleAgent || r == RoleAdmin }

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex:ux_users_username" json:"username"`
	Email        string    `gorm:"size:160;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string    `gorm:"size:100;column:password" json:"-"`
	Role         Role      `gorm:"size:16" json:"role"`
	FullName     string    `gorm:"size:120" json:"fullName"`
	Mobile       string    `gorm:"size:20" json:"mobile,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID uint64
	Role   Role
}

// CanAccess reports whether the actor may read records owned by ownerID.
func (a Actor) CanAccess(ownerID uint64) bool {
	return a.Role.Staff() || a.UserID == ownerID
}
