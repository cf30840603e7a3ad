package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/storage"
)

func backendConfig(url, key string) *config.Config {
	return &config.Config{
		Env: config.EnvDevelopment,
		Backend: config.BackendConfig{
			URL:           url,
			AnonKey:       key,
			DataDriver:    config.DataDriverREST,
			StorageDriver: config.StorageDriverREST,
			Bucket:        "pdfs",
		},
	}
}

func TestNewMissingConfigReturnsStub(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := New(context.Background(), backendConfig("", "key"), zap.New(core))

	assert.False(t, client.Configured())
	require.Equal(t, 1, logs.FilterMessageSnippet("not configured").Len())

	client = New(context.Background(), backendConfig("https://demo.supabase.co", ""), nil)
	assert.False(t, client.Configured())
}

func TestNewInvalidURLReturnsStub(t *testing.T) {
	for _, raw := range []string{"not a url", "ftp://files.example.com", "https://"} {
		core, logs := observer.New(zapcore.DebugLevel)
		client := New(context.Background(), backendConfig(raw, "key"), zap.New(core))

		assert.False(t, client.Configured(), raw)
		entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
		require.Len(t, entries, 1, raw)
	}
}

func TestNewValidRESTConfig(t *testing.T) {
	client := New(context.Background(), backendConfig("https://demo.supabase.co", "key"), zap.NewNop())
	require.True(t, client.Configured())
	assert.Equal(t, "https://demo.supabase.co/storage/v1/object/public/pdfs/a.pdf", client.PublicURL("pdfs", "a.pdf"))
	assert.NoError(t, Close(client))
}

func TestNewLocalStorageDriver(t *testing.T) {
	cfg := backendConfig("https://demo.supabase.co", "key")
	cfg.Backend.StorageDriver = config.StorageDriverLocal
	cfg.Local = config.LocalStorageConfig{Dir: t.TempDir(), PublicBaseURL: "/files"}

	client := New(context.Background(), cfg, zap.NewNop())
	require.True(t, client.Configured())
	assert.Equal(t, "/files/pdfs/course-1/module-1/a.pdf", client.PublicURL("pdfs", "course-1/module-1/a.pdf"))
}

func TestNewUnknownDriversReturnStub(t *testing.T) {
	cfg := backendConfig("https://demo.supabase.co", "key")
	cfg.Backend.DataDriver = "mongo"
	assert.False(t, New(context.Background(), cfg, nil).Configured())

	cfg = backendConfig("https://demo.supabase.co", "key")
	cfg.Backend.StorageDriver = "ftp"
	assert.False(t, New(context.Background(), cfg, nil).Configured())

	cfg = backendConfig("https://demo.supabase.co", "key")
	cfg.Backend.StorageDriver = config.StorageDriverS3
	assert.False(t, New(context.Background(), cfg, nil).Configured())
}

func TestStubOperationsReturnNotConfigured(t *testing.T) {
	stub := Stub()
	var rows []row

	assert.False(t, stub.Configured())
	assert.ErrorIs(t, stub.Select(context.Background(), From("courses"), &rows), ErrNotConfigured)
	objects, err := stub.List(context.Background(), "pdfs", "course-1/module-1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, objects)
	assert.Empty(t, stub.PublicURL("pdfs", "a.pdf"))
	assert.NoError(t, Close(stub))
}

type fakeData struct{}

func (fakeData) Select(context.Context, Query, interface{}) error { return nil }

type fakeObjects struct{}

func (fakeObjects) List(context.Context, string, string) ([]storage.Object, error) { return nil, nil }
func (fakeObjects) PublicURL(bucket, path string) string                          { return bucket + "/" + path }

func TestNewLiveComposes(t *testing.T) {
	client := NewLive(fakeData{}, fakeObjects{})
	assert.True(t, client.Configured())
	assert.Equal(t, "pdfs/x.pdf", client.PublicURL("pdfs", "x.pdf"))
}
