package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const listPageSize = 100

// RESTStore talks to the hosted storage HTTP API.
type RESTStore struct {
	client  *resty.Client
	baseURL string
}

type listRequest struct {
	Prefix string      `json:"prefix"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	SortBy listSorting `json:"sortBy"`
}

type listSorting struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

type listEntry struct {
	ID        *string `json:"id"`
	Name      string  `json:"name"`
	UpdatedAt string  `json:"updated_at"`
	Metadata  struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

type apiError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// NewRESTStore builds a store for baseURL authenticated with apiKey.
// A zero timeout leaves the HTTP client default in place.
func NewRESTStore(baseURL, apiKey string, timeout time.Duration) *RESTStore {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL+"/storage/v1").
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &RESTStore{client: client, baseURL: baseURL}
}

// List returns the objects directly under prefix. Folder placeholders are skipped.
func (s *RESTStore) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	var entries []listEntry
	var apiErr apiError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(listRequest{
			Prefix: strings.Trim(prefix, "/"),
			Limit:  listPageSize,
			SortBy: listSorting{Column: "name", Order: "asc"},
		}).
		SetResult(&entries).
		SetError(&apiErr).
		SetPathParam("bucket", bucket).
		Post("/object/list/{bucket}")
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, err)
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("list %s/%s: %s", bucket, prefix, msg)
	}

	objects := make([]Object, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == nil {
			continue
		}
		obj := Object{Name: entry.Name, Size: entry.Metadata.Size}
		if ts, err := time.Parse(time.RFC3339Nano, entry.UpdatedAt); err == nil {
			obj.UpdatedAt = ts
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// PublicURL derives the public download URL of an object in a public bucket.
func (s *RESTStore) PublicURL(bucket, objectPath string) string {
	return publicURL(s.baseURL+"/storage/v1/object/public", bucket, objectPath)
}
