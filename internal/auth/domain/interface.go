package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/stybayev/graduate-work/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_role_repository.go -package=mocks github.com/stybayev/graduate-work/internal/auth/domain RoleRepository

import "context"

type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateCredentials(ctx context.Context, id string, login, passwordHash *string) (*User, error)
	RecordLogin(ctx context.Context, userID, userAgent string) error
	GetLoginHistory(ctx context.Context, userID string, limit, offset int) ([]LoginHistoryEntry, error)
	GetRoleNames(ctx context.Context, userID string) ([]string, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, id string, name, description *string, permissions []string) (*Role, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, userID, roleID string) error
	Remove(ctx context.Context, userID, roleID string) error
	GetUserPermissions(ctx context.Context, userID string) ([]string, error)
}
