package role

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/repository/postgres"
	"github.com/nkiryanov/shop/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestRole(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(s *Service, storage repository.Storage, events *testutil.Recorder)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			events := &testutil.Recorder{}
			fn(NewService(storage.Role(), events), storage, events)
		})
	}

	admin := models.User{ID: 1, RoleID: models.AdminRoleID, RoleName: models.AdminRoleName}
	customer := models.User{ID: 2, RoleID: 2, RoleName: "customer"}

	t.Run("seeded roles listed", func(t *testing.T) {
		inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
			roles, err := s.List(t.Context(), admin)

			require.NoError(t, err)
			require.Len(t, roles, 2)
			require.Equal(t, "admin", roles[0].Name)
			require.Equal(t, "customer", roles[1].Name)
		})
	})

	t.Run("create update delete", func(t *testing.T) {
		inTx(t, func(s *Service, _ repository.Storage, events *testutil.Recorder) {
			role, err := s.Create(t.Context(), admin, repository.RoleParams{Name: "manager", Description: "Shop manager"})
			require.NoError(t, err)
			require.Equal(t, "manager", role.Name)

			role, err = s.Update(t.Context(), admin, role.ID, repository.UpdateRoleParams{Description: ptr("Store manager")})
			require.NoError(t, err)
			require.Equal(t, "manager", role.Name)
			require.Equal(t, "Store manager", role.Description)

			got, err := s.Get(t.Context(), admin, role.ID)
			require.NoError(t, err)
			require.Equal(t, role, got)

			err = s.Delete(t.Context(), admin, role.ID)
			require.NoError(t, err)

			_, err = s.Get(t.Context(), admin, role.ID)
			require.ErrorIs(t, err, apperrors.ErrRoleNotFound)

			require.Equal(t, []string{models.EventRoleCreated, models.EventRoleUpdated, models.EventRoleDeleted}, events.Types())
		})
	})

	t.Run("name taken", func(t *testing.T) {
		inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
			_, err := s.Create(t.Context(), admin, repository.RoleParams{Name: "customer"})

			require.ErrorIs(t, err, apperrors.ErrRoleNameTaken)
			require.ErrorIs(t, err, apperrors.ErrConflict)
		})
	})

	t.Run("admin role reserved", func(t *testing.T) {
		inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
			err := s.Delete(t.Context(), admin, models.AdminRoleID)

			require.ErrorIs(t, err, apperrors.ErrRoleReserved)
			require.ErrorIs(t, err, apperrors.ErrForbidden)
		})
	})

	t.Run("role in use", func(t *testing.T) {
		inTx(t, func(s *Service, storage repository.Storage, _ *testutil.Recorder) {
			role, err := s.Create(t.Context(), admin, repository.RoleParams{Name: "manager"})
			require.NoError(t, err)
			testutil.CreateUser(t, storage, "alice", role.ID)

			err = s.Delete(t.Context(), admin, role.ID)

			require.ErrorIs(t, err, apperrors.ErrRoleInUse)
		})
	})

	t.Run("not found", func(t *testing.T) {
		inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
			err := s.Delete(t.Context(), admin, 999)
			require.ErrorIs(t, err, apperrors.ErrRoleNotFound)

			_, err = s.Update(t.Context(), admin, 999, repository.UpdateRoleParams{Name: ptr("ghost")})
			require.ErrorIs(t, err, apperrors.ErrRoleNotFound)
		})
	})

	t.Run("customer forbidden", func(t *testing.T) {
		inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
			_, err := s.List(t.Context(), customer)
			require.ErrorIs(t, err, apperrors.ErrAdminRequired)

			_, err = s.Create(t.Context(), customer, repository.RoleParams{Name: "hacker"})
			require.ErrorIs(t, err, apperrors.ErrAdminRequired)

			err = s.Delete(t.Context(), customer, 2)
			require.ErrorIs(t, err, apperrors.ErrAdminRequired)
		})
	})
}
