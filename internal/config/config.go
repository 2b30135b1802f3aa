package config

import (
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GoogleDriveConfig holds the OAuth client and the long-lived refresh token
// used to open a Drive session. RootFolderID is optional.
type GoogleDriveConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RootFolderID string
}

// Configured reports whether every credential needed for a Drive session is present.
func (c GoogleDriveConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// StorageConfig selects and configures the folder/file storage backend.
type StorageConfig struct {
	// Backend is one of "gdrive", "minio" or "memory".
	Backend     string
	RootFolder  string
	Subfolder   string
	GoogleDrive GoogleDriveConfig
	MinIO       MinIOConfig
}

// UploadConfig holds the upload allow-list and size limits.
type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
	BodyLimit    int
}

// ForwarderConfig points at the backend API that receives submitted form data.
type ForwarderConfig struct {
	URL        string
	APIKey     string
	TimeoutSec int
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Env        string
	CORSOrigin string
	Log        LogConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Upload     UploadConfig
	Forwarder  ForwarderConfig
}

const (
	defaultMaxFileSize = 10 * 1024 * 1024
	defaultBodyLimit   = 50 * 1024 * 1024
)

var defaultAllowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	v := newViper()

	return &AppConfig{
		AppHost:    v.GetString("APP_HOST"),
		Port:       v.GetString("PORT"),
		Env:        v.GetString("APP_ENV"),
		CORSOrigin: v.GetString("CORS_ORIGIN"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		Storage: StorageConfig{
			Backend:    strings.ToLower(v.GetString("STORAGE_BACKEND")),
			RootFolder: v.GetString("STORAGE_ROOT_FOLDER_NAME"),
			Subfolder:  v.GetString("STORAGE_SUBFOLDER_NAME"),
			GoogleDrive: GoogleDriveConfig{
				ClientID:     v.GetString("GOOGLE_DRIVE_CLIENT_ID"),
				ClientSecret: v.GetString("GOOGLE_DRIVE_CLIENT_SECRET"),
				RefreshToken: v.GetString("GOOGLE_DRIVE_REFRESH_TOKEN"),
				RootFolderID: ParseFolderID(v.GetString("GOOGLE_DRIVE_FOLDER_ID")),
			},
			MinIO: MinIOConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
		},
		Upload: UploadConfig{
			MaxFileSize:  v.GetInt64("MAX_FILE_SIZE"),
			AllowedTypes: splitList(v.GetString("ALLOWED_FILE_TYPES")),
			BodyLimit:    v.GetInt("BODY_LIMIT"),
		},
		Forwarder: ForwarderConfig{
			URL:        v.GetString("BACKEND_API_URL"),
			APIKey:     v.GetString("BACKEND_API_KEY"),
			TimeoutSec: v.GetInt("BACKEND_API_TIMEOUT_SEC"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_HOST", "localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGIN", "http://localhost:8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)

	v.SetDefault("STORAGE_BACKEND", "gdrive")
	v.SetDefault("STORAGE_ROOT_FOLDER_NAME", "Onboarding Forms")
	v.SetDefault("STORAGE_SUBFOLDER_NAME", "Formulario onboarding")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("MAX_FILE_SIZE", defaultMaxFileSize)
	v.SetDefault("ALLOWED_FILE_TYPES", strings.Join(defaultAllowedTypes, ","))
	v.SetDefault("BODY_LIMIT", defaultBodyLimit)

	v.SetDefault("BACKEND_API_TIMEOUT_SEC", 15)
	return v
}

var folderURLPattern = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)

// ParseFolderID accepts either a bare folder id or a Drive folder URL such as
// https://drive.google.com/drive/u/1/folders/<id> and returns the id.
func ParseFolderID(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := folderURLPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
