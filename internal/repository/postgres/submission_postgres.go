package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"onboardapi/internal/model"
	"onboardapi/internal/repository"
)

// SubmissionPostgres is a PostgreSQL implementation of repository.SubmissionRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type SubmissionPostgres struct {
	db *sql.DB
}

// NewSubmissionPostgres creates a new SubmissionPostgres repository.
func NewSubmissionPostgres(db *sql.DB) *SubmissionPostgres {
	return &SubmissionPostgres{db: db}
}

var _ repository.SubmissionRepository = (*SubmissionPostgres)(nil)

const submissionColumns = `id, company_name, folder_id, form_data, files, forwarded, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*model.Submission, error) {
	var (
		s         model.Submission
		formData  []byte
		filesJSON []byte
	)
	if err := row.Scan(
		&s.ID,
		&s.CompanyName,
		&s.FolderID,
		&formData,
		&filesJSON,
		&s.Forwarded,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.FormData = json.RawMessage(formData)
	s.Files = make([]model.UploadedFile, 0)
	if len(filesJSON) > 0 {
		if err := json.Unmarshal(filesJSON, &s.Files); err != nil {
			return nil, fmt.Errorf("decode files of submission %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

// Create inserts a new submission row and returns the stored record.
func (r *SubmissionPostgres) Create(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	formData := s.FormData
	if len(formData) == 0 {
		formData = json.RawMessage(`{}`)
	}
	files := s.Files
	if files == nil {
		files = []model.UploadedFile{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("encode files: %w", err)
	}

	const q = `
		INSERT INTO onboarding_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7)
		RETURNING ` + submissionColumns

	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.CompanyName,
		s.FolderID,
		string(formData),
		string(filesJSON),
		s.Forwarded,
		s.CreatedAt,
	)
	return scanSubmission(row)
}

// FindByID fetches a single submission by its ID.
func (r *SubmissionPostgres) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	const q = `
		SELECT ` + submissionColumns + `
		FROM onboarding_submissions
		WHERE id = $1
	`
	return scanSubmission(r.db.QueryRowContext(ctx, q, id))
}

// List returns submissions using LIMIT/OFFSET pagination and a total count.
func (r *SubmissionPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Submission], error) {
	const qCount = `SELECT COUNT(*) FROM onboarding_submissions`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + submissionColumns + `
		FROM onboarding_submissions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Submission]{
		Items: items,
		Total: total,
	}, nil
}

// MarkForwarded updates the forwarded flag. A missing row yields sql.ErrNoRows.
func (r *SubmissionPostgres) MarkForwarded(ctx context.Context, id string, forwarded bool) error {
	const q = `UPDATE onboarding_submissions SET forwarded = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, forwarded)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
