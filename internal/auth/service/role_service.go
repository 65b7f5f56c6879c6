package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	"github.com/stybayev/graduate-work/internal/auth/dto"
	autherror "github.com/stybayev/graduate-work/internal/errors"
)

// RoleService resolves role membership and permission sets and owns
// all role mutations. Admin enforcement is composed as middleware in
// front of the mutating handlers, not inside this service.
type RoleService struct {
	roles         domain.RoleRepository
	users         domain.UserRepository
	adminRoleName string
	log           zerolog.Logger
}

func NewRoleService(roles domain.RoleRepository, users domain.UserRepository, adminRoleName string, log zerolog.Logger) *RoleService {
	return &RoleService{
		roles:         roles,
		users:         users,
		adminRoleName: adminRoleName,
		log:           log,
	}
}

// IsAdmin checks current role membership in the database, not the
// token snapshot, so a freshly revoked admin role takes effect
// immediately for guarded operations.
func (s *RoleService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	names, err := s.users.GetRoleNames(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == s.adminRoleName {
			return true, nil
		}
	}
	return false, nil
}

// GetPermissions returns the deduplicated union of permission strings
// across all roles currently assigned to the user.
func (s *RoleService) GetPermissions(ctx context.Context, userID string) (*dto.UserPermissionsOutput, error) {
	perms, err := s.roles.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(perms))
	unique := make([]string, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}

	return &dto.UserPermissionsOutput{
		UserID:      userID,
		Permissions: unique,
	}, nil
}

func (s *RoleService) Create(ctx context.Context, input dto.RoleInput) (*domain.Role, error) {
	role := &domain.Role{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Permissions: input.Permissions,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}

	s.log.Info().Str("role", role.Name).Msg("role created")

	return role, nil
}

func (s *RoleService) Get(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, autherror.ErrRoleNotFound
	}

	return role, nil
}

func (s *RoleService) Update(ctx context.Context, roleID string, input dto.RoleUpdateInput) (*domain.Role, error) {
	return s.roles.Update(ctx, roleID, input.Name, input.Description, input.Permissions)
}

func (s *RoleService) Delete(ctx context.Context, roleID string) error {
	return s.roles.Delete(ctx, roleID)
}

func (s *RoleService) List(ctx context.Context) ([]dto.RoleOutput, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RoleOutput, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleOutput{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Permissions: r.Permissions,
		})
	}

	return out, nil
}

func (s *RoleService) Assign(ctx context.Context, userID, roleID string) error {
	if err := s.roles.Assign(ctx, userID, roleID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Str("role_id", roleID).Msg("role assigned")

	return nil
}

func (s *RoleService) Remove(ctx context.Context, userID, roleID string) error {
	return s.roles.Remove(ctx, userID, roleID)
}
