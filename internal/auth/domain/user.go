package domain

import "time"

type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []string
}

type LoginHistoryEntry struct {
	ID        string
	UserID    string
	UserAgent string
	LoginTime time.Time
}
