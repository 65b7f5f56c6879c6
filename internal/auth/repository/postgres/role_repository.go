package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	autherror "github.com/stybayev/graduate-work/internal/errors"
)

type RoleRepository struct {
	db DB
}

func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO roles (id, name, description, permissions)
		VALUES ($1, $2, $3, $4)
	`, role.ID, role.Name, role.Description, role.Permissions)
	if isUniqueViolation(err) {
		return autherror.ErrRoleExists
	}
	if err != nil {
		return storeFailure("failed to create role", err)
	}

	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	query := `
		SELECT id, name, description, permissions
		FROM roles
		WHERE id = $1
		LIMIT 1;
	`
	var role domain.Role
	err := r.db.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.Description, &role.Permissions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeFailure("failed to get role", err)
	}

	return &role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, permissions
		FROM roles
		ORDER BY name;
	`)
	if err != nil {
		return nil, storeFailure("failed to list roles", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.Permissions); err != nil {
			return nil, storeFailure("failed to scan role", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("failed to read roles", err)
	}

	return roles, nil
}

func (r *RoleRepository) Update(ctx context.Context, id string, name, description *string, permissions []string) (*domain.Role, error) {
	query := `
		UPDATE roles
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    permissions = COALESCE($4, permissions)
		WHERE id = $1
		RETURNING id, name, description, permissions;
	`
	var role domain.Role
	err := r.db.QueryRow(ctx, query, id, name, description, permissions).
		Scan(&role.ID, &role.Name, &role.Description, &role.Permissions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, autherror.ErrRoleNotFound
		}
		if isUniqueViolation(err) {
			return nil, autherror.ErrRoleExists
		}
		return nil, storeFailure("failed to update role", err)
	}

	return &role, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return storeFailure("failed to delete role", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrRoleNotFound
	}

	return nil
}

// Assign creates a (user, role) assignment inside a transaction so the
// existence checks and the insert commit or roll back together.
func (r *RoleRepository) Assign(ctx context.Context, userID, roleID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeFailure("failed to begin assign", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return storeFailure("failed to check user", err)
	}
	if !exists {
		return autherror.ErrUserNotFound
	}

	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
		return storeFailure("failed to check role", err)
	}
	if !exists {
		return autherror.ErrRoleNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (id, user_id, role_id)
		VALUES (gen_random_uuid(), $1, $2)
	`, userID, roleID)
	if isUniqueViolation(err) {
		return autherror.ErrRoleAlreadyAssigned
	}
	if err != nil {
		return storeFailure("failed to assign role", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeFailure("failed to commit assign", err)
	}

	return nil
}

func (r *RoleRepository) Remove(ctx context.Context, userID, roleID string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role_id = $2
	`, userID, roleID)
	if err != nil {
		return storeFailure("failed to remove role", err)
	}
	if tag.RowsAffected() == 0 {
		return autherror.ErrAssignmentNotFound
	}

	return nil
}

// GetUserPermissions returns the permission strings of every role
// assigned to the user, duplicates included. Deduplication is the
// service's concern.
func (r *RoleRepository) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, storeFailure("failed to check user", err)
	}
	if !exists {
		return nil, autherror.ErrUserNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.permissions
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1;
	`, userID)
	if err != nil {
		return nil, storeFailure("failed to get permissions", err)
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var rolePerms []string
		if err := rows.Scan(&rolePerms); err != nil {
			return nil, storeFailure("failed to scan permissions", err)
		}
		perms = append(perms, rolePerms...)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("failed to read permissions", err)
	}

	return perms, nil
}
