package storage

import (
	"net/url"
	"strings"
	"time"
)

// Object describes a single entry returned by a storage listing.
type Object struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JoinPath joins a prefix and an object name with a single slash.
func JoinPath(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	name = strings.TrimLeft(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// publicURL escapes every path segment and appends it to base/bucket.
func publicURL(base, bucket, objectPath string) string {
	segments := strings.Split(strings.Trim(objectPath, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}
