package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/service"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
	"github.com/opencampus/lms-api/pkg/response"
)

// StudentHandler exposes the student dashboard and enrollment endpoints.
type StudentHandler struct {
	catalog     *service.CatalogService
	enrollments *service.EnrollmentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(catalog *service.CatalogService, enrollments *service.EnrollmentService) *StudentHandler {
	return &StudentHandler{catalog: catalog, enrollments: enrollments}
}

// Dashboard godoc
// @Summary Student dashboard: enrolled and available courses
// @Tags Students
// @Accept json
// @Produce json
// @Param search_query formData string false "Filter available courses by name"
// @Success 200 {object} response.Envelope
// @Router /student/dashboard [post]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var search string
	if c.Request.Method == http.MethodPost {
		search = c.PostForm("search_query")
		if search == "" {
			var body struct {
				SearchQuery string `json:"search_query"`
			}
			if err := c.ShouldBindJSON(&body); err == nil {
				search = body.SearchQuery
			}
		}
	}

	enrolled, err := h.enrollments.ListEnrolledCourses(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	available, err := h.catalog.ListAvailable(c.Request.Context(), session.UserID, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"enrolled_courses":  enrolled,
		"available_courses": available,
		"search_query":      search,
	})
}

// Enroll godoc
// @Summary Enroll in a course (idempotent)
// @Tags Students
// @Param course_id path string true "Course ID"
// @Success 302
// @Router /student/enroll/{course_id} [get]
func (h *StudentHandler) Enroll(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if _, err := h.enrollments.Enroll(c.Request.Context(), session.UserID, c.Param("course_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/student/dashboard")
}

// Unenroll godoc
// @Summary Unenroll from a course (idempotent)
// @Tags Students
// @Param course_id path string true "Course ID"
// @Success 302
// @Router /student/unenroll/{course_id} [get]
func (h *StudentHandler) Unenroll(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.enrollments.Unenroll(c.Request.Context(), session.UserID, c.Param("course_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/student/dashboard")
}
