package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"talkproposals/internal/domain"
)

func userRows(id, email, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "speaker_name", "created_at", "updated_at"}).
		AddRow(id, email, name, testNow, testNow)
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.User
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`(?s)SELECT id, email, speaker_name, created_at, updated_at\s+FROM users\s+WHERE id = \$1`).
					WithArgs("user-1").
					WillReturnRows(userRows("user-1", "user-1@example.com", "Ada"))
			},
			want: &domain.User{ID: "user-1", Email: "user-1@example.com", SpeakerName: "Ada", CreatedAt: testNow, UpdatedAt: testNow},
		},
		{
			name: "not found",
			id:   "user-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("user-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrUserNotFound,
		},
		{
			name: "db error",
			id:   "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("user-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			repo := NewUserRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the email before querying", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`(?s)FROM users\s+WHERE email = \$1`).
			WithArgs("ada@example.com").
			WillReturnRows(userRows("user-1", "ada@example.com", "Ada"))

		repo := NewUserRepository(db)
		got, err := repo.GetByEmail(ctx, "  Ada@Example.com ")
		require.NoError(t, err)
		require.Equal(t, "user-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestConferenceRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`(?s)SELECT id, name, slug, created_at, updated_at\s+FROM conferences\s+WHERE id = \$1`).
			WithArgs(testConf).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
				AddRow(testConf, "PyCon Taiwan 2026", "pycontw-2026", testNow, testNow))

		repo := NewConferenceRepository(db)
		got, err := repo.GetByID(ctx, testConf)
		require.NoError(t, err)
		require.Equal(t, "PyCon Taiwan 2026", got.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM conferences`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewConferenceRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConferenceRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM conferences\s+WHERE slug = \$1`).
		WithArgs("pycontw-2026").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
			AddRow(testConf, "PyCon Taiwan 2026", "pycontw-2026", testNow, testNow))

	repo := NewConferenceRepository(db)
	got, err := repo.GetBySlug(ctx, "pycontw-2026")
	require.NoError(t, err)
	require.Equal(t, testConf, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
