package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/service"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

type fakeCourseSrv struct {
	configured bool
	courses    []models.Course
	detail     *models.CourseDetail
	detailErr  error
	lastID     int64
	calls      int
}

func (f *fakeCourseSrv) Configured() bool { return f.configured }

func (f *fakeCourseSrv) List(context.Context) []models.Course {
	if f.courses == nil {
		return []models.Course{}
	}
	return f.courses
}

func (f *fakeCourseSrv) Detail(_ context.Context, id int64) (*models.CourseDetail, error) {
	f.calls++
	f.lastID = id
	return f.detail, f.detailErr
}

type fakeManifestSrv struct {
	manifest   *service.Manifest
	err        error
	lastFormat service.ExportFormat
}

func (f *fakeManifestSrv) Manifest(_ context.Context, _ int64, format service.ExportFormat) (*service.Manifest, error) {
	f.lastFormat = format
	return f.manifest, f.err
}

func sampleCourseDetail() *models.CourseDetail {
	return &models.CourseDetail{
		Course: models.Course{ID: 7, Title: "Дигитални умения", CreatedAt: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		Modules: []models.Module{
			{ID: 11, Title: "Basics", Files: []models.FileEntry{
				{Name: "intro.pdf", URL: "https://cdn.example.com/pdfs/course-7/module-1/intro.pdf"},
				{Name: "Report.PDF", URL: "https://cdn.example.com/pdfs/course-7/module-1/Report.PDF"},
			}},
			{ID: 12, Title: "Advanced", Files: []models.FileEntry{}},
		},
		ModuleCount: 2,
	}
}

func newAPIRouter(courses courseService, exports manifestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(courses, exports)
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.GET("/api/v1/courses", h.List)
	router.GET("/api/v1/courses/:id", h.Get)
	router.GET("/api/v1/courses/:id/materials", h.Materials)
	return router
}

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCourseHandlerList(t *testing.T) {
	router := newAPIRouter(&fakeCourseSrv{configured: true, courses: []models.Course{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	assert.Len(t, courses, 2)
	assert.EqualValues(t, 2, env.Meta["count"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCourseHandlerListEmptyIsArray(t *testing.T) {
	router := newAPIRouter(&fakeCourseSrv{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestCourseHandlerGet(t *testing.T) {
	srv := &fakeCourseSrv{configured: true, detail: sampleCourseDetail()}
	router := newAPIRouter(srv, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), srv.lastID)
	env := decodeEnvelope(t, rec)
	var detail models.CourseDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.Modules, 2)
	assert.Len(t, detail.Modules[0].Files, 2)
	assert.EqualValues(t, 2, env.Meta["module_count"])
	assert.Contains(t, env.Meta, "processing_time_ms")
}

func TestCourseHandlerGetInvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		srv := &fakeCourseSrv{configured: true}
		router := newAPIRouter(srv, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/"+id, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Zero(t, srv.calls, id)
	}
}

func TestCourseHandlerGetErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", appErrors.Clone(appErrors.ErrNotFound, "course not found"), http.StatusNotFound, "NOT_FOUND"},
		{"not configured", appErrors.ErrNotConfigured, http.StatusServiceUnavailable, "NOT_CONFIGURED"},
		{"fetch failed", appErrors.ErrCourseFetchFailed, http.StatusBadGateway, "COURSE_FETCH_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newAPIRouter(&fakeCourseSrv{detailErr: tc.err}, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/7", nil))

			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestCourseHandlerGetCancelledRendersNothing(t *testing.T) {
	router := newAPIRouter(&fakeCourseSrv{detailErr: context.Canceled}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/7", nil).WithContext(ctx))

	assert.Equal(t, statusClientClosedRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCourseHandlerMaterials(t *testing.T) {
	exports := &fakeManifestSrv{manifest: &service.Manifest{
		Filename:    "course-7-materials.pdf",
		ContentType: "application/pdf",
		Body:        []byte("%PDF-1.3"),
	}}
	router := newAPIRouter(&fakeCourseSrv{}, exports)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/7/materials?format=pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ExportFormatPDF, exports.lastFormat)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="course-7-materials.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestCourseHandlerMaterialsRejectsUnknownFormat(t *testing.T) {
	exports := &fakeManifestSrv{}
	router := newAPIRouter(&fakeCourseSrv{}, exports)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/7/materials?format=docx", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, exports.lastFormat)
}

func TestCourseHandlerMaterialsPropagatesErrors(t *testing.T) {
	router := newAPIRouter(&fakeCourseSrv{}, &fakeManifestSrv{err: appErrors.ErrNotConfigured})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses/7/materials", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
