package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/repository"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type backendStatus interface {
	Configured() bool
}

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ListModules(ctx context.Context, courseID int64) ([]models.Module, error)
}

type materialRepository interface {
	ListModuleFiles(ctx context.Context, courseID int64, position int) ([]models.FileEntry, error)
}

// CourseServiceConfig tunes the detail assembly.
type CourseServiceConfig struct {
	// LookupConcurrency caps simultaneous storage listings per request. Zero means one goroutine per module.
	LookupConcurrency int
}

// CourseServiceParams groups constructor dependencies.
type CourseServiceParams struct {
	Backend   backendStatus
	Courses   courseRepository
	Materials materialRepository
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    CourseServiceConfig
}

// CourseService assembles the course list and course detail view models.
type CourseService struct {
	backend   backendStatus
	courses   courseRepository
	materials materialRepository
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       CourseServiceConfig
}

// NewCourseService constructs a CourseService.
func NewCourseService(params CourseServiceParams) *CourseService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		backend:   params.Backend,
		courses:   params.Courses,
		materials: params.Materials,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       params.Config,
	}
}

// Configured reports whether the backend is reachable at all.
func (s *CourseService) Configured() bool {
	return s.backend != nil && s.backend.Configured()
}

// List returns every course, newest first. Failures are logged and produce an empty list.
func (s *CourseService) List(ctx context.Context) []models.Course {
	if !s.Configured() {
		s.logger.Info("backend not configured, serving empty course list")
		return []models.Course{}
	}

	start := time.Now()
	courses, err := s.courses.List(ctx)
	s.metrics.ObserveBackendQuery("courses", time.Since(start), err)
	if err != nil {
		s.logger.Error("error fetching courses", zap.Error(err))
		return []models.Course{}
	}
	if len(courses) == 0 {
		s.logger.Info("no courses found")
		return []models.Course{}
	}
	return courses
}

// Detail loads a course, its modules and every module's PDF files.
//
// Only the course lookup can fail the call. A failed module query yields no modules and
// a failed storage listing yields no files for that module alone. When ctx is cancelled
// before the result is assembled, the partial result is dropped and ctx.Err() returned.
func (s *CourseService) Detail(ctx context.Context, id int64) (*models.CourseDetail, error) {
	if !s.Configured() {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "")
	}
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	start := time.Now()
	course, err := s.courses.FindByID(ctx, id)
	s.metrics.ObserveBackendQuery("courses", time.Since(start), ignoreNoRows(err))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Error("error fetching course", zap.Int64("course_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrCourseFetchFailed.Code, appErrors.ErrCourseFetchFailed.Status, appErrors.ErrCourseFetchFailed.Message)
	}

	start = time.Now()
	modules, err := s.courses.ListModules(ctx, course.ID)
	s.metrics.ObserveBackendQuery("modules", time.Since(start), err)
	if err != nil {
		s.logger.Error("error fetching modules", zap.Int64("course_id", course.ID), zap.Error(err))
		modules = nil
	}

	resolved := s.attachFiles(ctx, course.ID, modules)
	if err := ctx.Err(); err != nil {
		s.logger.Debug("course detail abandoned", zap.Int64("course_id", course.ID), zap.Error(err))
		return nil, err
	}

	return &models.CourseDetail{
		Course:      *course,
		Modules:     resolved,
		ModuleCount: len(resolved),
	}, nil
}

// attachFiles resolves files for every module concurrently and waits for all of them.
// Module i reads from the folder of position i, regardless of the module's own id.
func (s *CourseService) attachFiles(ctx context.Context, courseID int64, modules []models.Module) []models.Module {
	resolved := make([]models.Module, len(modules))
	var g errgroup.Group
	if s.cfg.LookupConcurrency > 0 {
		g.SetLimit(s.cfg.LookupConcurrency)
	}
	for i := range modules {
		i := i
		g.Go(func() error {
			module := modules[i]
			module.Files = s.moduleFiles(ctx, courseID, i)
			resolved[i] = module
			return nil
		})
	}
	_ = g.Wait()
	return resolved
}

func (s *CourseService) moduleFiles(ctx context.Context, courseID int64, position int) (files []models.FileEntry) {
	path := repository.ModulePath(courseID, position)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("module file lookup panicked", zap.String("path", path), zap.Any("panic", r))
			files = []models.FileEntry{}
		}
	}()

	start := time.Now()
	found, err := s.materials.ListModuleFiles(ctx, courseID, position)
	s.metrics.ObserveStorageLookup(time.Since(start), len(found), err)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("error fetching module files",
				zap.Int64("course_id", courseID),
				zap.Int("module", position+1),
				zap.String("path", path),
				zap.Error(err))
		}
		return []models.FileEntry{}
	}
	s.logger.Debug("module files resolved", zap.String("path", path), zap.Int("count", len(found)))
	if found == nil {
		found = []models.FileEntry{}
	}
	return found
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

