package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/export"
)

// ExportFormat selects the manifest encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var manifestHeaders = []string{"module", "module_title", "file", "url"}

type courseDetailer interface {
	Detail(ctx context.Context, id int64) (*models.CourseDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// Manifest is a rendered material listing ready to be served as a download.
type Manifest struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the materials of a course for offline reference.
type ExportService struct {
	courses courseDetailer
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(courses courseDetailer, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// ParseExportFormat validates a format query value. Empty means CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", raw))
	}
}

// Manifest assembles the course detail and renders it in the requested format.
func (s *ExportService) Manifest(ctx context.Context, id int64, format ExportFormat) (*Manifest, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}

	detail, err := s.courses.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	dataset := ManifestDataset(detail)
	var body []byte
	contentType := "text/csv; charset=utf-8"
	switch format {
	case ExportFormatPDF:
		body, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		body, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.logger.Error("render manifest failed", zap.Int64("course_id", id), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render manifest")
	}

	return &Manifest{
		Filename:    fmt.Sprintf("course-%d-materials.%s", detail.Course.ID, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// ManifestDataset flattens a course detail into one row per file. Modules without
// files keep a single row so every module is listed.
func ManifestDataset(detail *models.CourseDetail) export.Dataset {
	dataset := export.Dataset{Title: detail.Course.Title, Headers: manifestHeaders}
	for i, module := range detail.Modules {
		number := strconv.Itoa(i + 1)
		if len(module.Files) == 0 {
			dataset.Rows = append(dataset.Rows, []string{number, module.Title, "", ""})
			continue
		}
		for _, file := range module.Files {
			dataset.Rows = append(dataset.Rows, []string{number, module.Title, file.Name, file.URL})
		}
	}
	return dataset
}
