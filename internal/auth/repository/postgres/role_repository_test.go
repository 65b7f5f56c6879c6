package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stybayev/graduate-work/internal/auth/domain"
	repo "github.com/stybayev/graduate-work/internal/auth/repository/postgres"
	autherror "github.com/stybayev/graduate-work/internal/errors"
)

var roleColumns = []string{"id", "name", "description", "permissions"}

func TestCreateRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRoleRepository(mock)
	ctx := context.Background()

	role := &domain.Role{
		ID:          "role-1",
		Name:        "moderator",
		Description: "can hide films",
		Permissions: []string{"films.hide"},
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO roles").
			WithArgs(role.ID, role.Name, role.Description, role.Permissions).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, role))
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO roles").
			WithArgs(role.ID, role.Name, role.Description, role.Permissions).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "roles_name_key"})

		err := r.Create(ctx, role)
		assert.ErrorIs(t, err, autherror.ErrRoleExists)
	})
}

func TestUpdateRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRoleRepository(mock)
	ctx := context.Background()
	newName := "moderator-2"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE roles").
			WithArgs("role-1", &newName, (*string)(nil), []string(nil)).
			WillReturnRows(pgxmock.NewRows(roleColumns).
				AddRow("role-1", "moderator-2", "can hide films", []string{"films.hide"}))

		role, err := r.Update(ctx, "role-1", &newName, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "moderator-2", role.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("UPDATE roles").
			WithArgs("ghost", &newName, (*string)(nil), []string(nil)).
			WillReturnError(pgx.ErrNoRows)

		_, err := r.Update(ctx, "ghost", &newName, nil, nil)
		assert.ErrorIs(t, err, autherror.ErrRoleNotFound)
	})
}

func TestDeleteRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRoleRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM roles").
			WithArgs("role-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, r.Delete(ctx, "role-1"))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM roles").
			WithArgs("ghost").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := r.Delete(ctx, "ghost")
		assert.ErrorIs(t, err, autherror.ErrRoleNotFound)
	})
}

func TestAssignRole(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		r := repo.NewRoleRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("role-456").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs("user-123", "role-456").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		assert.NoError(t, r.Assign(ctx, "user-123", "role-456"))
	})

	t.Run("user not found rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		r := repo.NewRoleRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err = r.Assign(ctx, "ghost", "role-456")
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})

	t.Run("already assigned rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		r := repo.NewRoleRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("role-456").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec("INSERT INTO user_roles").
			WithArgs("user-123", "role-456").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_roles_user_id_role_id_key"})
		mock.ExpectRollback()

		err = r.Assign(ctx, "user-123", "role-456")
		assert.ErrorIs(t, err, autherror.ErrRoleAlreadyAssigned)
	})
}

func TestRemoveRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRoleRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM user_roles").
			WithArgs("user-123", "role-456").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, r.Remove(ctx, "user-123", "role-456"))
	})

	t.Run("assignment not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM user_roles").
			WithArgs("user-123", "role-456").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := r.Remove(ctx, "user-123", "role-456")
		assert.ErrorIs(t, err, autherror.ErrAssignmentNotFound)
	})
}

func TestGetUserPermissions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRoleRepository(mock)
	ctx := context.Background()

	t.Run("flattens role arrays", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery("SELECT r.permissions").
			WithArgs("user-123").
			WillReturnRows(pgxmock.NewRows([]string{"permissions"}).
				AddRow([]string{"a", "b"}).
				AddRow([]string{"b", "c"}))

		perms, err := r.GetUserPermissions(ctx, "user-123")
		require.NoError(t, err)
		// duplicates survive at the repository layer
		assert.Equal(t, []string{"a", "b", "b", "c"}, perms)
	})

	t.Run("unknown user", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := r.GetUserPermissions(ctx, "ghost")
		assert.ErrorIs(t, err, autherror.ErrUserNotFound)
	})

	t.Run("database outage surfaces as upstream failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("user-123").
			WillReturnError(fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused"))

		_, err := r.GetUserPermissions(ctx, "user-123")
		assert.ErrorIs(t, err, autherror.ErrUpstreamUnavailable)
	})
}
