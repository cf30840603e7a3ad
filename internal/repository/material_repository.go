package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/backend"
	"github.com/noah-isme/course-portal/pkg/storage"
)

const pdfSuffix = ".pdf"

// MaterialRepository resolves module files from object storage.
type MaterialRepository struct {
	objects backend.ObjectStore
	bucket  string
}

// NewMaterialRepository creates a repository reading from bucket.
func NewMaterialRepository(objects backend.ObjectStore, bucket string) *MaterialRepository {
	if bucket == "" {
		bucket = "pdfs"
	}
	return &MaterialRepository{objects: objects, bucket: bucket}
}

// ModulePath is the storage folder of the module at the given zero-based position.
func ModulePath(courseID int64, position int) string {
	return fmt.Sprintf("course-%d/module-%d", courseID, position+1)
}

// IsPDF reports whether name ends in ".pdf", ignoring case.
func IsPDF(name string) bool {
	return name != "" && strings.HasSuffix(strings.ToLower(name), pdfSuffix)
}

// ListModuleFiles returns the PDFs stored for the module at position within the course.
func (r *MaterialRepository) ListModuleFiles(ctx context.Context, courseID int64, position int) ([]models.FileEntry, error) {
	path := ModulePath(courseID, position)
	objects, err := r.objects.List(ctx, r.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", r.bucket, path, err)
	}

	files := make([]models.FileEntry, 0, len(objects))
	for _, obj := range objects {
		if !IsPDF(obj.Name) {
			continue
		}
		files = append(files, models.FileEntry{
			Name: obj.Name,
			URL:  r.objects.PublicURL(r.bucket, storage.JoinPath(path, obj.Name)),
		})
	}
	return files, nil
}
