package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"talkproposals/internal/domain"
)

func reviewRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "conference_id", "proposal_id", "stage", "categories", "summary", "comment",
		"translated_summary", "translated_comment", "vote", "created_at",
		"stage_diff", "translated_stage_diff", "title",
	})
}

func addReviewRow(rows *sqlmock.Rows, id, proposalID int64, stage, vote, title string) *sqlmock.Rows {
	return rows.AddRow(
		id, testConf, proposalID, stage, "{CORE,WEB}", "summary", "comment",
		"translated summary", "translated comment", vote, testNow,
		"", "", title,
	)
}

func TestLLMReviewRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
		errIs   error
	}{
		{
			name: "success returns generated id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO llm_reviews`).
					WithArgs(testConf, int64(10), "S1", pq.Array([]string{"CORE", "WEB"}),
						"summary", "comment", "", "", "+1", testNow, "", "").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
			},
			wantID: 3,
		},
		{
			name: "duplicate stage maps unique violation to ErrConflict",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO llm_reviews`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrConflict,
		},
		{
			name: "dangling proposal maps fk violation to ErrNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO llm_reviews`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO llm_reviews`).
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
			repo := NewLLMReviewRepository(db)
			review := &domain.LLMReview{
				ConferenceID: testConf,
				ProposalID:   10,
				Stage:        domain.ReviewStage1,
				Categories:   []string{"CORE", "WEB"},
				Summary:      "summary",
				Comment:      "comment",
				Vote:         domain.ReviewVoteStrongAccept,
				CreatedAt:    testNow,
			}
			err = repo.Create(ctx, review)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, review.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLLMReviewRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      int64
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success joins the proposal title",
			id:   3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM llm_reviews r\s+JOIN talk_proposals p ON p\.id = r\.proposal_id\s+WHERE r\.conference_id = \$1 AND r\.id = \$2`).
					WithArgs(testConf, int64(3)).
					WillReturnRows(addReviewRow(reviewRows(), 3, 10, "S1", "+1", "My Talk"))
			},
		},
		{
			name: "not found",
			id:   99,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM llm_reviews r`).
					WithArgs(testConf, int64(99)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			repo := NewLLMReviewRepository(db)
			got, err := repo.GetByID(ctx, testConf, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, domain.ReviewStage1, got.Stage)
			require.Equal(t, domain.ReviewVoteStrongAccept, got.Vote)
			require.Equal(t, []string{"CORE", "WEB"}, got.Categories)
			require.Equal(t, "My Talk", got.ProposalTitle)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLLMReviewRepository_ListByConference(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM llm_reviews WHERE conference_id = \$1`).
		WithArgs(testConf).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	rows := addReviewRow(reviewRows(), 1, 10, "S1", "+1", "A Talk")
	rows = addReviewRow(rows, 2, 10, "S2", "-0", "A Talk")
	mock.ExpectQuery(`FROM llm_reviews r\s+JOIN talk_proposals p .+\s+WHERE r\.conference_id = \$1\s+ORDER BY p\.title, r\.stage, r\.created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(testConf, 2, 2).
		WillReturnRows(rows)

	repo := NewLLMReviewRepository(db)
	got, total, err := repo.ListByConference(ctx, testConf, domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, got, 2)
	require.Equal(t, domain.ReviewStage2, got[1].Stage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLLMReviewRepository_ListByProposal(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := addReviewRow(reviewRows(), 1, 10, "S1", "+0", "A Talk")
	mock.ExpectQuery(`WHERE r\.conference_id = \$1 AND r\.proposal_id = \$2`).
		WithArgs(testConf, int64(10)).
		WillReturnRows(rows)

	repo := NewLLMReviewRepository(db)
	got, err := repo.ListByProposal(ctx, testConf, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(10), got[0].ProposalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLLMReviewRepository_Update(t *testing.T) {
	ctx := context.Background()
	update := domain.LLMReviewUpdate{
		Stage:      domain.ReviewStage2,
		Categories: []string{"CORE"},
		Summary:    "new summary",
		Comment:    "new comment",
		Vote:       domain.ReviewVoteWeakReject,
	}

	t.Run("updates then reloads", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE llm_reviews\s+SET stage = \$3`).
			WithArgs(testConf, int64(3), "S2", pq.Array([]string{"CORE"}),
				"new summary", "new comment", "", "", "-0", "", "").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
		mock.ExpectQuery(`FROM llm_reviews r`).
			WithArgs(testConf, int64(3)).
			WillReturnRows(addReviewRow(reviewRows(), 3, 10, "S2", "-0", "My Talk"))

		repo := NewLLMReviewRepository(db)
		got, err := repo.Update(ctx, testConf, 3, update)
		require.NoError(t, err)
		require.Equal(t, domain.ReviewStage2, got.Stage)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE llm_reviews\s+SET stage = \$3`).
			WillReturnError(sql.ErrNoRows)

		repo := NewLLMReviewRepository(db)
		_, err = repo.Update(ctx, testConf, 99, update)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("stage collision maps to ErrConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE llm_reviews\s+SET stage = \$3`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewLLMReviewRepository(db)
		_, err = repo.Update(ctx, testConf, 3, update)
		require.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestLLMReviewRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      int64
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			id:   3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM llm_reviews WHERE conference_id = \$1 AND id = \$2`).
					WithArgs(testConf, int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   99,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM llm_reviews WHERE conference_id = \$1 AND id = \$2`).
					WithArgs(testConf, int64(99)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			repo := NewLLMReviewRepository(db)
			err = repo.Delete(ctx, testConf, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
