package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"onboardapi/internal/catalog"
	"onboardapi/internal/forwarder"
	"onboardapi/internal/model"
	"onboardapi/internal/repository"
	"onboardapi/internal/storage"
)

// SubmitFieldPrefix prefixes the multipart field of a file answering a question: "file_<q>".
const SubmitFieldPrefix = "file_"

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Forwarder delivers a stored submission to the backend API.
type Forwarder interface {
	Enabled() bool
	Forward(ctx context.Context, requestID string, p forwarder.Payload) error
}

// UploadFilesRequest is a batch of files answering one question.
type UploadFilesRequest struct {
	CompanyName    string       `validate:"required"`
	QuestionNumber int          `validate:"gte=0,lte=18"`
	StepTitle      string       `validate:"required"`
	Files          []FileUpload `validate:"min=1"`
}

// UploadFilesResult reports every file of a batch. Files holds only the successes.
type UploadFilesResult struct {
	CompanyFolderID string               `json:"companyFolderId"`
	Files           []model.UploadedFile `json:"files"`
	Results         []model.FileResult   `json:"results"`
	Uploaded        int                  `json:"uploaded"`
	Failed          int                  `json:"failed"`
}

// CompanyFilesResult lists a company's upload folder.
type CompanyFilesResult struct {
	CompanyName     string           `json:"companyName"`
	CompanyFolderID string           `json:"companyFolderId"`
	Files           []storage.Object `json:"files"`
}

// SubmitRequest is a whole form: its answers as a JSON object plus files in
// fields named "file_<q>".
type SubmitRequest struct {
	RequestID   string
	CompanyName string `validate:"required"`
	FormData    json.RawMessage
	Files       []FileUpload
}

// SubmitResult is the stored submission plus the per-file outcomes.
type SubmitResult struct {
	Submission *model.Submission  `json:"submission"`
	Results    []model.FileResult `json:"results"`
	Failed     int                `json:"failed"`
}

// SubmissionListResult is the service-level DTO for paginated submissions.
type SubmissionListResult struct {
	Items []model.Submission `json:"data"`
	Total int                `json:"total"`
}

// StorageStatus describes the storage backend for health checks.
type StorageStatus struct {
	Backend      string `json:"backend"`
	Available    bool   `json:"available"`
	Reason       string `json:"reason,omitempty"`
	RootFolderID string `json:"rootFolderId,omitempty"`
}

// OnboardingService defines the use cases of the onboarding form.
type OnboardingService interface {
	// UploadFiles validates the batch, resolves the company folder and uploads
	// the files one by one in request order. A failed file does not stop the
	// rest; when every file fails the first failure is returned as the error.
	UploadFiles(ctx context.Context, req UploadFilesRequest) (*UploadFilesResult, error)

	// CompanyFiles resolves (creating if needed) the company folder and lists it.
	CompanyFiles(ctx context.Context, companyName string) (*CompanyFilesResult, error)

	// DeleteFile removes a stored file by backend id.
	DeleteFile(ctx context.Context, fileID string) error

	// Submit uploads the form's files in ascending question order, stores the
	// submission and forwards it to the backend API when one is configured.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	// ListSubmissions returns stored submissions using limit/offset and a total count.
	ListSubmissions(ctx context.Context, limit, offset int) (*SubmissionListResult, error)

	// GetSubmission returns a stored submission by ID.
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)

	// StorageStatus reports the storage backend state without network calls.
	StorageStatus() StorageStatus
}

// OnboardingDeps are the collaborators of the onboarding service.
type OnboardingDeps struct {
	Storage   storage.Client
	Backend   string
	Resolver  *FolderResolver
	Organizer *FileOrganizer
	Repo      repository.SubmissionRepository
	Forwarder Forwarder
	Policy    UploadPolicy
	Logger    *zap.Logger
}

type onboardingService struct {
	OnboardingDeps
	log *zap.Logger
}

// NewOnboardingService constructs a new OnboardingService.
func NewOnboardingService(d OnboardingDeps) OnboardingService {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &onboardingService{OnboardingDeps: d, log: log.With(zap.String("component", "onboarding"))}
}

func (s *onboardingService) UploadFiles(ctx context.Context, req UploadFilesRequest) (*UploadFilesResult, error) {
	req.StepTitle = strings.TrimSpace(req.StepTitle)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	files, err := s.checkFiles(req.Files)
	if err != nil {
		return nil, err
	}

	folderID, err := s.Resolver.Resolve(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	res := &UploadFilesResult{
		CompanyFolderID: folderID,
		Files:           make([]model.UploadedFile, 0, len(files)),
		Results:         make([]model.FileResult, 0, len(files)),
	}
	var firstErr error
	for _, f := range files {
		r, uerr := s.uploadOne(ctx, folderID, f, req.QuestionNumber, req.StepTitle)
		res.Results = append(res.Results, r)
		if uerr != nil {
			res.Failed++
			if firstErr == nil {
				firstErr = uerr
			}
			continue
		}
		res.Uploaded++
		res.Files = append(res.Files, *r.File)
	}
	if res.Uploaded == 0 {
		return res, fmt.Errorf("all %d uploads failed: %w", res.Failed, firstErr)
	}
	return res, nil
}

func (s *onboardingService) uploadOne(ctx context.Context, folderID string, f FileUpload, q int, stepTitle string) (model.FileResult, error) {
	r := model.FileResult{OriginalName: f.OriginalName, QuestionNumber: q}
	up, err := s.Organizer.Upload(ctx, folderID, f, q, stepTitle)
	if err != nil {
		r.Status = model.FileStatusFailed
		r.Error = err.Error()
		s.log.Warn("upload failed",
			zap.String("event", "file_upload_failed"),
			zap.String("folder_id", folderID),
			zap.String("original_name", f.OriginalName),
			zap.Error(err),
		)
		return r, err
	}
	r.Status = model.FileStatusUploaded
	r.File = &up
	return r, nil
}

// checkFiles applies the upload policy to every file before anything is stored.
func (s *onboardingService) checkFiles(in []FileUpload) ([]FileUpload, error) {
	out := make([]FileUpload, 0, len(in))
	for _, f := range in {
		checked, err := s.Policy.CheckFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, checked)
	}
	return out, nil
}

func (s *onboardingService) CompanyFiles(ctx context.Context, companyName string) (*CompanyFilesResult, error) {
	folderID, err := s.Resolver.Resolve(ctx, companyName)
	if err != nil {
		return nil, err
	}
	files, err := s.Organizer.List(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return &CompanyFilesResult{CompanyName: companyName, CompanyFolderID: folderID, Files: files}, nil
}

func (s *onboardingService) DeleteFile(ctx context.Context, fileID string) error {
	return s.Organizer.Delete(ctx, fileID)
}

type questionFile struct {
	q    catalog.Question
	file FileUpload
}

func (s *onboardingService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	formData, err := normalizeFormData(req.FormData)
	if err != nil {
		return nil, err
	}

	var pending []questionFile
	for _, f := range req.Files {
		q, ok := questionForField(f.Field)
		if !ok {
			s.log.Info("skipping file for unknown question",
				zap.String("event", "submit_file_skipped"),
				zap.String("field", f.Field),
				zap.String("original_name", f.OriginalName),
			)
			continue
		}
		checked, err := s.Policy.CheckFile(f)
		if err != nil {
			return nil, err
		}
		pending = append(pending, questionFile{q: q, file: checked})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].q.QuestionNumber < pending[j].q.QuestionNumber
	})

	folderID, err := s.Resolver.Resolve(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{Results: make([]model.FileResult, 0, len(pending))}
	uploaded := make([]model.UploadedFile, 0, len(pending))
	for _, p := range pending {
		r, uerr := s.uploadOne(ctx, folderID, p.file, p.q.QuestionNumber, p.q.StepTitle)
		res.Results = append(res.Results, r)
		if uerr != nil {
			res.Failed++
			continue
		}
		uploaded = append(uploaded, *r.File)
	}

	sub, err := s.Repo.Create(ctx, &model.Submission{
		ID:          uuid.NewString(),
		CompanyName: req.CompanyName,
		FolderID:    folderID,
		FormData:    formData,
		Files:       uploaded,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	res.Submission = sub

	s.forward(ctx, req.RequestID, sub)
	return res, nil
}

// forward pushes sub to the backend API. Failures are logged and leave the
// submission marked as not forwarded.
func (s *onboardingService) forward(ctx context.Context, requestID string, sub *model.Submission) {
	if s.Forwarder == nil || !s.Forwarder.Enabled() {
		return
	}
	err := s.Forwarder.Forward(ctx, requestID, forwarder.Payload{
		SubmissionID:    sub.ID,
		CompanyName:     sub.CompanyName,
		CompanyFolderID: sub.FolderID,
		FormData:        sub.FormData,
		UploadedFiles:   sub.Files,
		SubmittedAt:     sub.CreatedAt,
	})
	if err != nil {
		s.log.Warn("submission not forwarded",
			zap.String("event", "submission_forward_failed"),
			zap.String("request_id", requestID),
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		return
	}
	if err := s.Repo.MarkForwarded(ctx, sub.ID, true); err != nil {
		s.log.Error("mark forwarded failed",
			zap.String("event", "submission_mark_forwarded_failed"),
			zap.String("submission_id", sub.ID),
			zap.Error(err),
		)
		return
	}
	sub.Forwarded = true
}

// questionForField maps "file_<q>" to its catalog question.
func questionForField(field string) (catalog.Question, bool) {
	raw, ok := strings.CutPrefix(field, SubmitFieldPrefix)
	if !ok {
		return catalog.Question{}, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return catalog.Question{}, false
	}
	return catalog.Lookup(n)
}

// normalizeFormData accepts an absent value or a JSON object.
func normalizeFormData(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil || obj == nil {
		return nil, invalid("formData", "invalid form data format")
	}
	return json.RawMessage(trimmed), nil
}

func (s *onboardingService) ListSubmissions(ctx context.Context, limit, offset int) (*SubmissionListResult, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.Repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SubmissionListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *onboardingService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	sub, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *onboardingService) StorageStatus() StorageStatus {
	st := StorageStatus{Backend: s.Backend, Available: true}
	if s.Storage == nil {
		return StorageStatus{Backend: s.Backend, Reason: "storage not configured"}
	}
	if err := s.Storage.Ready(); err != nil {
		st.Available = false
		st.Reason = err.Error()
	}
	if s.Resolver != nil {
		st.RootFolderID = s.Resolver.RootID()
	}
	return st
}
