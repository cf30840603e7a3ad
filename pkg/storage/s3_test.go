package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/pkg/config"
)

const listBucketXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>pdfs</Name>
  <Prefix>course-2/module-1/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <Delimiter>/</Delimiter>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>course-2/module-1/Lecture.pdf</Key>
    <LastModified>2025-03-01T10:00:00.000Z</LastModified>
    <ETag>"abc"</ETag>
    <Size>512</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
  <Contents>
    <Key>course-2/module-1/</Key>
    <LastModified>2025-03-01T10:00:00.000Z</LastModified>
    <ETag>"def"</ETag>
    <Size>0</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
</ListBucketResult>`

func TestS3StoreList(t *testing.T) {
	var gotPrefix string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pdfs/", r.URL.Path)
		gotPrefix = r.URL.Query().Get("prefix")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(listBucketXML))
	}))
	defer srv.Close()

	store, err := NewS3Store(config.S3Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "key",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	objects, err := store.List(context.Background(), "pdfs", "course-2/module-1")
	require.NoError(t, err)
	assert.Equal(t, "course-2/module-1/", gotPrefix)
	require.Len(t, objects, 1)
	assert.Equal(t, "Lecture.pdf", objects[0].Name)
	assert.Equal(t, int64(512), objects[0].Size)
}

func TestS3StorePublicURL(t *testing.T) {
	store, err := NewS3Store(config.S3Config{Endpoint: "files.example.com", UseSSL: true, PublicBaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pdfs/course-1/module-1/a%20b.pdf", store.PublicURL("pdfs", "course-1/module-1/a b.pdf"))

	store, err = NewS3Store(config.S3Config{Endpoint: "files.example.com", UseSSL: true})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/pdfs/x.pdf", store.PublicURL("pdfs", "x.pdf"))
}

func TestS3StoreRequiresEndpoint(t *testing.T) {
	_, err := NewS3Store(config.S3Config{})
	require.Error(t, err)
}
