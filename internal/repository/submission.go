package repository

import (
	"context"

	"onboardapi/internal/model"
)

// SubmissionRepository persists onboarding submissions using SQL queries only.
// No business logic here, strictly persistence operations.
type SubmissionRepository interface {
	// Create inserts a new submission and returns the stored record.
	// The caller provides ID and CreatedAt.
	Create(ctx context.Context, s *model.Submission) (*model.Submission, error)

	// FindByID returns a submission by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Submission, error)

	// List returns a page of submissions, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Submission], error)

	// MarkForwarded records whether the form data reached the backend API.
	MarkForwarded(ctx context.Context, id string, forwarded bool) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
