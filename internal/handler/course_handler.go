package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/service"
	"github.com/opencampus/lms-api/pkg/response"
)

// CourseHandler exposes the public course endpoints.
type CourseHandler struct {
	catalog *service.CatalogService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(catalog *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// Show godoc
// @Summary Course detail with materials
// @Tags Courses
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /course/{course_id} [get]
func (h *CourseHandler) Show(c *gin.Context) {
	view, err := h.catalog.GetCourseView(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
