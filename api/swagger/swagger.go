package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Portal API",
        "description": "Read-only course catalog with module PDF materials",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog, modules and materials"},
        {"name": "Operations", "description": "Liveness, readiness and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check",
                "description": "Always 200. backend_configured is false while the portal runs without a backend.",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/ReadyStatus"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Prometheus exposition format"}
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "description": "Newest first. Backend failures produce an empty list.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseListEnvelope"}}
                }
            }
        },
        "/api/v1/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Course detail with modules and PDF materials",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseDetailEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Error fetching course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Backend not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/{id}/materials": {
            "get": {
                "tags": ["Courses"],
                "summary": "Download the material manifest of a course",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Manifest attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Error fetching course", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Backend not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Course": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "pdf_url": {"type": "string", "x-nullable": true}
            }
        },
        "FileEntry": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "Module": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "course_id": {"type": "integer"},
                "pdf_url": {"type": "string", "x-nullable": true},
                "files": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FileEntry"}
                }
            }
        },
        "CourseDetail": {
            "type": "object",
            "properties": {
                "course": {"$ref": "#/definitions/Course"},
                "modules": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Module"}
                },
                "module_count": {"type": "integer"}
            }
        },
        "ReadyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "backend_configured": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "CourseListEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Course"}
                },
                "meta": {"type": "object"}
            }
        },
        "CourseDetailEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/CourseDetail"},
                "meta": {
                    "type": "object",
                    "properties": {
                        "processing_time_ms": {"type": "integer"},
                        "module_count": {"type": "integer"}
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
