package models

import "time"

// Course is a catalog entry owned by the backend.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	PDFURL      *string   `db:"pdf_url" json:"pdf_url"`
}

// CourseColumns lists the columns read for a course.
var CourseColumns = []string{"id", "created_at", "title", "description", "pdf_url"}

// Module is a subdivision of a course. Files is filled after the storage lookup
// and is not part of the backend row.
type Module struct {
	ID          int64       `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	CourseID    int64       `db:"course_id" json:"course_id"`
	PDFURL      *string     `db:"pdf_url" json:"pdf_url"`
	Files       []FileEntry `db:"-" json:"files"`
}

// ModuleColumns lists the columns read for a module.
var ModuleColumns = []string{"id", "title", "description", "course_id", "pdf_url"}

// FileEntry is a downloadable material resolved from storage.
type FileEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CourseDetail is the assembled view of one course.
type CourseDetail struct {
	Course      Course   `json:"course"`
	Modules     []Module `json:"modules"`
	ModuleCount int      `json:"module_count"`
}
