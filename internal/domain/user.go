package domain

import "time"

type Role string

const (
	RoleUser       Role = "USER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// AdminRoles is the closed allow-list for the back-office routes.
var AdminRoles = []Role{RoleEmployee, RoleAdmin, RoleSuperAdmin}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
