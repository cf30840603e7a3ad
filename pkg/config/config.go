package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Data drivers understood by the backend adapter.
const (
	DataDriverREST     = "rest"
	DataDriverPostgres = "postgres"
)

// Storage drivers understood by the backend adapter.
const (
	StorageDriverREST  = "rest"
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Backend  BackendConfig
	Database DatabaseConfig
	S3       S3Config
	Local    LocalStorageConfig
	CORS     CORSConfig
	Log      LogConfig
	Portal   PortalConfig
	Export   ExportConfig
}

// BackendConfig describes the hosted data/storage service.
type BackendConfig struct {
	URL               string
	AnonKey           string
	DataDriver        string
	StorageDriver     string
	Bucket            string
	Timeout           time.Duration
	ModuleOrderColumn string
	LookupConcurrency int
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// S3Config configures the S3-compatible storage driver.
type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

// LocalStorageConfig configures the on-disk storage driver.
type LocalStorageConfig struct {
	Dir           string
	PublicBaseURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PortalConfig holds presentation settings for the HTML views.
type PortalConfig struct {
	Title         string
	EnrollmentURL string
	DateLocale    string
}

// ExportConfig configures the material manifest exports.
type ExportConfig struct {
	PDFFont string
	CSVBOM  bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindAliases(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Backend = BackendConfig{
		URL:               strings.TrimSpace(v.GetString("SUPABASE_URL")),
		AnonKey:           strings.TrimSpace(v.GetString("SUPABASE_ANON_KEY")),
		DataDriver:        strings.ToLower(v.GetString("BACKEND_DATA_DRIVER")),
		StorageDriver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		Bucket:            v.GetString("STORAGE_BUCKET"),
		Timeout:           parseDuration(v.GetString("BACKEND_TIMEOUT"), 0),
		ModuleOrderColumn: v.GetString("MODULE_ORDER_COLUMN"),
		LookupConcurrency: v.GetInt("MODULE_LOOKUP_CONCURRENCY"),
	}

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.S3 = S3Config{
		Endpoint:      v.GetString("S3_ENDPOINT"),
		AccessKey:     v.GetString("S3_ACCESS_KEY"),
		SecretKey:     v.GetString("S3_SECRET_KEY"),
		Region:        v.GetString("S3_REGION"),
		UseSSL:        v.GetBool("S3_USE_SSL"),
		PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
	}

	cfg.Local = LocalStorageConfig{
		Dir:           v.GetString("STORAGE_LOCAL_DIR"),
		PublicBaseURL: v.GetString("STORAGE_LOCAL_PUBLIC_URL"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Portal = PortalConfig{
		Title:         v.GetString("PORTAL_TITLE"),
		EnrollmentURL: v.GetString("PORTAL_ENROLLMENT_URL"),
		DateLocale:    v.GetString("PORTAL_DATE_LOCALE"),
	}

	cfg.Export = ExportConfig{
		PDFFont: v.GetString("EXPORT_PDF_FONT"),
		CSVBOM:  v.GetBool("EXPORT_CSV_BOM"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("BACKEND_DATA_DRIVER", DataDriverREST)
	v.SetDefault("STORAGE_DRIVER", StorageDriverREST)
	v.SetDefault("STORAGE_BUCKET", "pdfs")
	v.SetDefault("BACKEND_TIMEOUT", "")
	v.SetDefault("MODULE_ORDER_COLUMN", "id")
	v.SetDefault("MODULE_LOOKUP_CONCURRENCY", 0)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_REGION", "")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("S3_PUBLIC_BASE_URL", "")

	v.SetDefault("STORAGE_LOCAL_DIR", "./materials")
	v.SetDefault("STORAGE_LOCAL_PUBLIC_URL", "/files")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PORTAL_TITLE", "Курсове")
	v.SetDefault("PORTAL_ENROLLMENT_URL", "https://braingym.digital/login/index.php")
	v.SetDefault("PORTAL_DATE_LOCALE", "bg")

	v.SetDefault("EXPORT_PDF_FONT", "")
	v.SetDefault("EXPORT_CSV_BOM", true)
}

// bindAliases keeps the variable names used by the previous front-end deployment working.
func bindAliases(v *viper.Viper) {
	_ = v.BindEnv("SUPABASE_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	_ = v.BindEnv("SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON", "NEXT_PUBLIC_SUPABASE_ANON_KEY")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
