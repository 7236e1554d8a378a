package models

import "time"

// Roles are normalized once at the edge (auth middleware / admin role
// endpoint); business code compares the constants only.
const (
	RoleStudent = "Student"
	RoleFaculty = "Faculty"
	RoleAdmin   = "Admin"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	StudentID string `gorm:"size:50" json:"studentId,omitempty"`
	Role      string `gorm:"size:20;not null;default:'Student'" json:"role"`

	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "ts_users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Staff (faculty or admin) may register items and manage bookings
// for the items they own.
func (u *User) IsStaff() bool { return u.Role == RoleFaculty || u.Role == RoleAdmin }

func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleFaculty || r == RoleAdmin
}

// DisplayName is used in notification messages.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.Username
	}
	return name
}
