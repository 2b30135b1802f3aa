package model

import (
	"encoding/json"
	"time"
)

// UploadedFile is the descriptor returned for a file stored in a company folder.
// Size is the size reported by the uploader, not re-read from the backend.
type UploadedFile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	URL            string `json:"url"`
	Size           int64  `json:"size"`
	QuestionNumber int    `json:"questionNumber"`
}

// FileResult is the per-file outcome of a batch upload.
type FileResult struct {
	OriginalName   string        `json:"originalName"`
	QuestionNumber int           `json:"questionNumber"`
	Status         string        `json:"status"`
	File           *UploadedFile `json:"file,omitempty"`
	Error          string        `json:"error,omitempty"`
}

const (
	FileStatusUploaded = "uploaded"
	FileStatusFailed   = "failed"
)

// Submission records one completed onboarding form.
// FormData is kept as the raw JSON object the client sent.
type Submission struct {
	ID          string          `json:"id"`
	CompanyName string          `json:"companyName"`
	FolderID    string          `json:"folderId"`
	FormData    json.RawMessage `json:"formData"`
	Files       []UploadedFile  `json:"files"`
	Forwarded   bool            `json:"forwarded"`
	CreatedAt   time.Time       `json:"createdAt"`
}
