package handler

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"onboardapi/internal/catalog"
	"onboardapi/internal/database"
	"onboardapi/internal/http/middleware"
	"onboardapi/internal/service"
)

// uploadFilesField is the multipart field of POST /api/upload.
const uploadFilesField = "files"

// Deps are the collaborators the HTTP handlers need.
type Deps struct {
	DB      *sql.DB
	Service service.OnboardingService
	// Env is reported by the upload health endpoint.
	Env string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", APIDocs())

	app.Get("/health", HealthCheck(d.DB, d.Service))
	app.Get("/healthz", LivenessProbe())

	upload := app.Group("/api/upload")
	upload.Post("/", UploadFiles(d.Service))
	upload.Get("/health", UploadHealth(d.Service, d.Env))
	upload.Get("/company/:companyName", CompanyFiles(d.Service))
	upload.Delete("/file/:fileId", DeleteFile(d.Service))

	form := app.Group("/api/form")
	form.Get("/structure", FormStructure())
	form.Get("/questions", FormQuestions())
	form.Post("/submit", SubmitForm(d.Service))
	form.Get("/submissions", ListSubmissions(d.Service))
	form.Get("/submissions/:id", GetSubmission(d.Service))
}

// APIDocs serves a Swagger UI page backed by /openapi.yaml.
func APIDocs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Onboarding API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	}
}

// HealthCheck pings the database and reports the storage backend state.
// Only the database decides the status code; storage being unavailable is
// reported but does not fail the probe.
func HealthCheck(db *sql.DB, svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		body := fiber.Map{"status": "healthy"}
		if svc != nil {
			body["storage"] = svc.StorageStatus()
		}
		return c.Status(fiber.StatusOK).JSON(body)
	}
}

// LivenessProbe is a dependency-free liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadHealth reports whether the storage backend is usable.
func UploadHealth(svc service.OnboardingService, env string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := svc.StorageStatus()
		return c.JSON(fiber.Map{
			"success":           true,
			"message":           "File upload service is healthy",
			"timestamp":         time.Now().UTC().Format(time.RFC3339),
			"environment":       env,
			"storageConfigured": st.Available,
			"storage":           st,
		})
	}
}

// UploadFiles handles POST /api/upload: multipart "files" answering one question.
// Every file is attempted; the response is 200 when all succeed, 207 when some
// fail and the first failure's error when none succeed.
func UploadFiles(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no files uploaded")
		}

		companyName := formValue(form, "companyName")
		stepTitle := formValue(form, "stepTitle")
		rawQ := formValue(form, "questionNumber")
		if companyName == "" || rawQ == "" || strings.TrimSpace(stepTitle) == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED",
				"missing required fields: companyName, questionNumber, or stepTitle")
		}
		q, err := strconv.Atoi(strings.TrimSpace(rawQ))
		if err != nil || !catalog.ValidQuestion(q) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUESTION_NUMBER",
				fmt.Sprintf("question number must be between %d and %d", catalog.MinQuestion, catalog.MaxQuestion))
		}

		var headers []*multipart.FileHeader
		headers = append(headers, form.File[uploadFilesField]...)
		headers = append(headers, form.File[uploadFilesField+"[]"]...)
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no files uploaded")
		}

		files, closeAll, err := openUploads(headers, uploadFilesField)
		defer closeAll()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		res, err := svc.UploadFiles(c.UserContext(), service.UploadFilesRequest{
			CompanyName:    companyName,
			QuestionNumber: q,
			StepTitle:      stepTitle,
			Files:          files,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		status := fiber.StatusOK
		if res.Failed > 0 {
			status = fiber.StatusMultiStatus
		}
		return c.Status(status).JSON(fiber.Map{
			"success":         res.Failed == 0,
			"message":         fmt.Sprintf("%d file(s) uploaded successfully", res.Uploaded),
			"files":           res.Files,
			"results":         res.Results,
			"uploaded":        res.Uploaded,
			"failed":          res.Failed,
			"companyFolderId": res.CompanyFolderID,
		})
	}
}

// CompanyFiles handles GET /api/upload/company/:companyName.
func CompanyFiles(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := pathParam(c, "companyName")
		if err != nil || strings.TrimSpace(name) == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "invalid company name")
		}

		res, err := svc.CompanyFiles(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":         true,
			"companyName":     res.CompanyName,
			"companyFolderId": res.CompanyFolderID,
			"files":           res.Files,
		})
	}
}

// DeleteFile handles DELETE /api/upload/file/:fileId.
func DeleteFile(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathParam(c, "fileId")
		if err != nil || id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid file id")
		}
		if err := svc.DeleteFile(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "File deleted successfully"})
	}
}

// FormStructure returns the form's steps and their questions.
func FormStructure() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "steps": catalog.Steps()})
	}
}

// FormQuestions returns every question flattened with its step.
func FormQuestions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "questions": catalog.Questions()})
	}
}

// SubmitForm handles POST /api/form/submit. Files are read from every multipart
// field named "file_<q>"; fields for unknown questions are ignored by the service.
func SubmitForm(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "multipart form expected")
		}

		companyName := formValue(form, "companyName")
		if companyName == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "company name is required")
		}
		formData := json.RawMessage(formValue(form, "formData"))
		if len(formData) > 0 && !json.Valid(formData) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM_DATA", "invalid form data format")
		}

		fields := make([]string, 0, len(form.File))
		for field := range form.File {
			if strings.HasPrefix(field, service.SubmitFieldPrefix) {
				fields = append(fields, field)
			}
		}
		// map order is random; keep submissions reproducible
		sort.Strings(fields)

		var files []service.FileUpload
		var closers []func()
		defer func() {
			for _, fn := range closers {
				fn()
			}
		}()
		for _, field := range fields {
			fs, closeAll, err := openUploads(form.File[field], field)
			closers = append(closers, closeAll)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			files = append(files, fs...)
		}

		res, err := svc.Submit(c.UserContext(), service.SubmitRequest{
			RequestID:   middleware.GetRequestID(c),
			CompanyName: companyName,
			FormData:    formData,
			Files:       files,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		status := fiber.StatusOK
		if res.Failed > 0 {
			status = fiber.StatusMultiStatus
		}
		sub := res.Submission
		return c.Status(status).JSON(fiber.Map{
			"success":         res.Failed == 0,
			"message":         "Form submitted successfully",
			"submissionId":    sub.ID,
			"companyName":     sub.CompanyName,
			"companyFolderId": sub.FolderID,
			"uploadedFiles":   sub.Files,
			"results":         res.Results,
			"formData":        sub.FormData,
			"forwarded":       sub.Forwarded,
		})
	}
}

// ListSubmissions handles GET /api/form/submissions with limit and offset.
func ListSubmissions(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListSubmissions(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetSubmission handles GET /api/form/submissions/:id.
func GetSubmission(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		sub, err := svc.GetSubmission(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sub)
	}
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// pathParam returns a URL-decoded copy of a route parameter. Company names
// routinely contain spaces and accents. The copy matters because folder
// resolution may outlive the request when the client disconnects.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	return url.PathUnescape(utils.CopyString(c.Params(key)))
}

// openUploads opens every header. The returned func closes whatever was opened,
// including on error.
func openUploads(headers []*multipart.FileHeader, field string) ([]service.FileUpload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	out := make([]service.FileUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)
		out = append(out, service.FileUpload{
			Reader:       f,
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Field:        field,
		})
	}
	return out, closeAll, nil
}
