package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus LMS API",
        "description": "Course catalog, enrollment and material management service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Registration, login and sessions"},
        {"name": "Courses", "description": "Public course catalog"},
        {"name": "Students", "description": "Dashboard and enrollment"},
        {"name": "Instructors", "description": "Course and material management"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new student or instructor",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username or email already taken"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and open a session",
                "responses": {
                    "200": {"description": "Session cookie set"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/logout": {
            "get": {
                "tags": ["Auth"],
                "summary": "Destroy the current session",
                "responses": {
                    "302": {"description": "Redirect to landing page"}
                }
            }
        },
        "/course/{course_id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Course detail with materials",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/student/dashboard": {
            "post": {
                "tags": ["Students"],
                "summary": "Enrolled and available courses, optionally filtered",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Not a student"}
                }
            }
        },
        "/student/enroll/{course_id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Enroll in a course (idempotent)",
                "responses": {
                    "302": {"description": "Redirect to dashboard"},
                    "404": {"description": "Course not found"}
                }
            }
        },
        "/student/unenroll/{course_id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Unenroll from a course (idempotent)",
                "responses": {
                    "302": {"description": "Redirect to dashboard"}
                }
            }
        },
        "/instructor/dashboard": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Courses owned by the caller",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Not an instructor"}
                }
            }
        },
        "/instructor/create_course": {
            "post": {
                "tags": ["Instructors"],
                "summary": "Create a course",
                "responses": {
                    "302": {"description": "Redirect to dashboard"}
                }
            }
        },
        "/instructor/course/{course_id}/manage": {
            "post": {
                "tags": ["Instructors"],
                "summary": "Attach a material (file or URL) to an owned course",
                "responses": {
                    "302": {"description": "Redirect to manage view"},
                    "400": {"description": "Invalid material"},
                    "403": {"description": "Course belongs to another instructor"}
                }
            }
        },
        "/instructor/course/{course_id}/delete": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Delete an owned course with its enrollments and materials",
                "responses": {
                    "302": {"description": "Redirect to dashboard"},
                    "403": {"description": "Course belongs to another instructor"}
                }
            }
        },
        "/instructor/course/{course_id}/roster/export": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Export the course roster as CSV or PDF",
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
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
