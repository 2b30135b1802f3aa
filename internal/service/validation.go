package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// Error codes carried by FileValidationError.
const (
	ErrCodeFileTooLarge = "file_too_large"
	ErrCodeInvalidMIME  = "invalid_mime"
	ErrCodeEmptyFile    = "empty_file"
)

// sniffLen is how many leading bytes are inspected when the declared type is missing.
const sniffLen = 3072

// FileValidationError reports why a single uploaded file was rejected.
// It matches ErrValidation with errors.Is.
type FileValidationError struct {
	Details map[string]any
	Field   string
	Code    string
	Message string
}

func (e *FileValidationError) Error() string { return e.Message }

func (e *FileValidationError) Unwrap() error { return ErrValidation }

// FileUpload is one file received from a client.
type FileUpload struct {
	Reader       io.Reader
	OriginalName string
	MimeType     string
	Size         int64
	// Field is the multipart field the file arrived in.
	Field string
}

// UploadPolicy is the allow-list and size ceiling applied to every file.
type UploadPolicy struct {
	MaxFileSize  int64
	AllowedTypes []string
}

// CheckFile validates f against the policy. When the declared MIME type is empty
// or generic, the type is sniffed from the content and the returned FileUpload
// carries the detected type and a reader that still yields every byte.
func (p UploadPolicy) CheckFile(f FileUpload) (FileUpload, error) {
	if f.Reader == nil {
		return f, ErrReaderNil
	}
	if f.Size <= 0 {
		return f, &FileValidationError{
			Field:   f.Field,
			Code:    ErrCodeEmptyFile,
			Message: fmt.Sprintf("file %q is empty", f.OriginalName),
			Details: map[string]any{},
		}
	}
	if p.MaxFileSize > 0 && f.Size > p.MaxFileSize {
		return f, &FileValidationError{
			Field:   f.Field,
			Code:    ErrCodeFileTooLarge,
			Message: fmt.Sprintf("file size exceeds maximum limit of %dMB", p.MaxFileSize/(1024*1024)),
			Details: map[string]any{
				"limit": p.MaxFileSize,
				"got":   f.Size,
			},
		}
	}

	mt := normalizeMIME(f.MimeType)
	if mt == "" || mt == "application/octet-stream" {
		detected, r, err := sniff(f.Reader)
		if err != nil {
			return f, fmt.Errorf("read upload %q: %w", f.OriginalName, err)
		}
		mt, f.Reader = detected, r
	}
	f.MimeType = mt

	if len(p.AllowedTypes) > 0 && !allowedMIME(mt, p.AllowedTypes) {
		return f, &FileValidationError{
			Field:   f.Field,
			Code:    ErrCodeInvalidMIME,
			Message: fmt.Sprintf("file type %s not allowed. Allowed types: %s", mt, strings.Join(p.AllowedTypes, ", ")),
			Details: map[string]any{
				"type":    mt,
				"allowed": p.AllowedTypes,
			},
		}
	}
	return f, nil
}

func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	mt := normalizeMIME(mimetype.Detect(head).String())
	return mt, io.MultiReader(bytes.NewReader(head), r), nil
}

// normalizeMIME drops parameters such as "; charset=utf-8" and lower-cases the type.
func normalizeMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// allowedMIME supports exact entries and "type/*" wildcards.
func allowedMIME(mt string, allowed []string) bool {
	for _, a := range allowed {
		a = normalizeMIME(a)
		if a == mt || a == "*/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(a, "/*"); ok && strings.HasPrefix(mt, prefix+"/") {
			return true
		}
	}
	return false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs the struct tags and converts the first failure to a ValidationError.
func validateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return invalid(lowerFirst(fe.Field()), "%s", describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "at least " + fe.Param() + " item(s) required"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid uuid"
	}
	return "failed " + fe.Tag() + " check"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
