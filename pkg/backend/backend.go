// Package backend is the single access point to the hosted data and storage services.
// New selects a live client or an inert stub once at startup; callers use the same
// Client interface either way.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/database"
	"github.com/noah-isme/course-portal/pkg/storage"
)

// ErrNotConfigured is returned by every operation of the stub client.
var ErrNotConfigured = errors.New("backend not configured")

// DataSource runs read queries.
type DataSource interface {
	Select(ctx context.Context, q Query, dest interface{}) error
}

// ObjectStore lists objects and derives their public URLs.
type ObjectStore interface {
	List(ctx context.Context, bucket, prefix string) ([]storage.Object, error)
	PublicURL(bucket, objectPath string) string
}

// Client is the capability exposed to services.
type Client interface {
	DataSource
	ObjectStore
	Configured() bool
}

type liveClient struct {
	DataSource
	ObjectStore
	closers []func() error
}

// NewLive composes a configured client from a data source and an object store.
func NewLive(data DataSource, objects ObjectStore) Client {
	return &liveClient{DataSource: data, ObjectStore: objects}
}

func (c *liveClient) Configured() bool { return true }

func (c *liveClient) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type stubClient struct{}

// Stub returns the inert client used when configuration is missing or invalid.
func Stub() Client {
	return stubClient{}
}

func (stubClient) Configured() bool { return false }

func (stubClient) Select(context.Context, Query, interface{}) error { return ErrNotConfigured }

func (stubClient) List(context.Context, string, string) ([]storage.Object, error) {
	return nil, ErrNotConfigured
}

func (stubClient) PublicURL(string, string) string { return "" }

// Close releases driver resources when the client holds any.
func Close(c Client) error {
	if closer, ok := c.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

type connectionSettings struct {
	URL     string `validate:"required,url"`
	AnonKey string `validate:"required"`
}

// Validate checks the endpoint URL and access key.
func Validate(cfg config.BackendConfig) error {
	settings := connectionSettings{URL: cfg.URL, AnonKey: cfg.AnonKey}
	if err := validator.New().Struct(settings); err != nil {
		return err
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// New builds the client for cfg. It never fails: any configuration problem is logged
// and the stub is returned instead.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	bc := cfg.Backend

	if bc.URL == "" || bc.AnonKey == "" {
		logger.Warn("backend environment variables not configured, using stub client",
			zap.Strings("required", []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"}),
			zap.String("env", cfg.Env))
		return Stub()
	}
	if err := Validate(bc); err != nil {
		logger.Error("invalid backend URL, using stub client",
			zap.String("url", bc.URL),
			zap.String("hint", "must be a valid HTTP or HTTPS URL"),
			zap.Error(err))
		return Stub()
	}

	client := &liveClient{}

	switch bc.DataDriver {
	case "", config.DataDriverREST:
		client.DataSource = NewRESTSource(bc.URL, bc.AnonKey, bc.Timeout)
	case config.DataDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logger.Error("database unavailable, using stub client", zap.Error(err))
			return Stub()
		}
		client.DataSource = NewSQLSource(db)
		client.closers = append(client.closers, db.Close)
	default:
		logger.Error("unknown data driver, using stub client", zap.String("driver", bc.DataDriver))
		return Stub()
	}

	switch bc.StorageDriver {
	case "", config.StorageDriverREST:
		client.ObjectStore = storage.NewRESTStore(bc.URL, bc.AnonKey, bc.Timeout)
	case config.StorageDriverS3:
		store, err := storage.NewS3Store(cfg.S3)
		if err != nil {
			logger.Error("object storage unavailable, using stub client", zap.Error(err))
			_ = client.Close()
			return Stub()
		}
		client.ObjectStore = store
	case config.StorageDriverLocal:
		store, err := storage.NewLocalStorage(cfg.Local.Dir, cfg.Local.PublicBaseURL)
		if err != nil {
			logger.Error("local storage unavailable, using stub client", zap.Error(err))
			_ = client.Close()
			return Stub()
		}
		client.ObjectStore = store
	default:
		logger.Error("unknown storage driver, using stub client", zap.String("driver", bc.StorageDriver))
		_ = client.Close()
		return Stub()
	}

	logger.Info("backend configured",
		zap.String("data_driver", bc.DataDriver),
		zap.String("storage_driver", bc.StorageDriver),
		zap.String("bucket", bc.Bucket))
	return client
}
