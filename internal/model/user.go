package model

import (
	"strings"
	"time"
)

// AdminUsername is the distinguished account seeded at first run. It always
// resolves the full permission set and can never be deleted.
const AdminUsername = "admin"

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Permissions that can be granted to a user
const (
	PermView        = "view"
	PermAdd         = "add"
	PermEdit        = "edit"
	PermDelete      = "delete"
	PermManageUsers = "manage_users"
)

// AllPermissions is the full permission set, implicitly held by the admin role
var AllPermissions = []string{PermView, PermAdd, PermEdit, PermDelete, PermManageUsers}

// User represents an account that can operate the inventory system.
// Permissions are stored as a comma-separated list.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Username    string     `json:"username" gorm:"type:varchar(100);not null;uniqueIndex"`
	Password    string     `json:"-" gorm:"type:varchar(255);not null"`
	Role        string     `json:"role" gorm:"type:varchar(50);not null;default:'user'"`
	Permissions string     `json:"permissions" gorm:"type:varchar(255)"`
	Active      bool       `json:"active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by" gorm:"type:varchar(100)"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
	ModifiedBy  string     `json:"modified_by,omitempty" gorm:"type:varchar(100)"`
}

// PermissionList resolves the effective permission set. The admin role always
// yields every permission regardless of the stored list.
func (u *User) PermissionList() []string {
	if u.Role == RoleAdmin {
		return AllPermissions
	}
	if u.Permissions == "" {
		return nil
	}
	var perms []string
	for _, p := range strings.Split(u.Permissions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms
}

// HasPermission reports whether the user's effective set contains perm
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.PermissionList() {
		if p == perm {
			return true
		}
	}
	return false
}

// JoinPermissions builds the stored comma-separated form
func JoinPermissions(perms []string) string {
	return strings.Join(perms, ",")
}
