package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboardapi/internal/model"
	"onboardapi/internal/repository"
)

var submissionCols = []string{"id", "company_name", "folder_id", "form_data", "files", "forwarded", "created_at"}

func TestSubmissionPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	sub := &model.Submission{
		ID:          "2b0d7b3e-1111-4a4a-9c9c-000000000001",
		CompanyName: "Acme Corp",
		FolderID:    "folder-1",
		FormData:    json.RawMessage(`{"q0":"Acme"}`),
		Files:       []model.UploadedFile{{ID: "f1", Name: "P6-IDENTIDAD VISUAL logo.png", URL: "https://x/f1", Size: 10, QuestionNumber: 6}},
		CreatedAt:   now,
	}
	filesJSON, _ := json.Marshal(sub.Files)

	rows := sqlmock.NewRows(submissionCols).
		AddRow(sub.ID, sub.CompanyName, sub.FolderID, []byte(sub.FormData), filesJSON, false, now)

	mock.ExpectQuery("INSERT INTO onboarding_submissions").
		WithArgs(sub.ID, sub.CompanyName, sub.FolderID, `{"q0":"Acme"}`, string(filesJSON), false, now).
		WillReturnRows(rows)

	got, err := repo.Create(ctx, sub)

	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
	assert.JSONEq(t, `{"q0":"Acme"}`, string(got.FormData))
	require.Len(t, got.Files, 1)
	assert.Equal(t, "P6-IDENTIDAD VISUAL logo.png", got.Files[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_Create_DefaultsEmptyJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO onboarding_submissions").
		WithArgs("id-1", "Acme", "folder-1", `{}`, `[]`, false, now).
		WillReturnRows(sqlmock.NewRows(submissionCols).AddRow("id-1", "Acme", "folder-1", []byte(`{}`), []byte(`[]`), false, now))

	got, err := repo.Create(context.Background(), &model.Submission{ID: "id-1", CompanyName: "Acme", FolderID: "folder-1", CreatedAt: now})

	require.NoError(t, err)
	assert.Empty(t, got.Files)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(submissionCols).
			AddRow("test-id", "Acme", "folder-1", []byte(`{}`), []byte(`[]`), true, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM onboarding_submissions WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		s, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "test-id", s.ID)
		assert.True(t, s.Forwarded)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM onboarding_submissions WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, s)
	})

	t.Run("corrupt files column", func(t *testing.T) {
		rows := sqlmock.NewRows(submissionCols).
			AddRow("bad-id", "Acme", "folder-1", []byte(`{}`), []byte(`not-json`), false, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM onboarding_submissions WHERE id = ?").
			WithArgs("bad-id").
			WillReturnRows(rows)

		_, err := repo.FindByID(ctx, "bad-id")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM onboarding_submissions").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(submissionCols).
		AddRow("id-2", "Beta", "folder-2", []byte(`{}`), []byte(`[]`), false, time.Now()).
		AddRow("id-1", "Acme", "folder-1", []byte(`{}`), []byte(`[]`), true, time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM onboarding_submissions ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(rows)

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "id-2", res.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionPostgres_MarkForwarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE onboarding_submissions SET forwarded").
		WithArgs("id-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkForwarded(ctx, "id-1", true))

	mock.ExpectExec("UPDATE onboarding_submissions SET forwarded").
		WithArgs("missing", true).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkForwarded(ctx, "missing", true), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
