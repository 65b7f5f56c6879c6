package dto

import "time"

type UserOutput struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Roles     []string  `json:"roles"`
}

type LoginHistoryOutput struct {
	UserAgent string    `json:"user_agent"`
	LoginTime time.Time `json:"login_time"`
}

type UserPermissionsOutput struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}
