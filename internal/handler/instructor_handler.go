package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/service"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
	"github.com/opencampus/lms-api/pkg/response"
)

// InstructorHandler exposes course management endpoints for instructors.
type InstructorHandler struct {
	catalog   *service.CatalogService
	materials *service.MaterialService
	roster    *service.RosterService
}

// NewInstructorHandler constructs InstructorHandler.
func NewInstructorHandler(catalog *service.CatalogService, materials *service.MaterialService, roster *service.RosterService) *InstructorHandler {
	return &InstructorHandler{catalog: catalog, materials: materials, roster: roster}
}

// Dashboard godoc
// @Summary Instructor dashboard: owned courses
// @Tags Instructors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructor/dashboard [get]
func (h *InstructorHandler) Dashboard(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courses, err := h.catalog.ListByInstructor(c.Request.Context(), session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"courses": courses})
}

// CreateCourseForm godoc
// @Summary Describe the course creation form
// @Tags Instructors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /instructor/create_course [get]
func (h *InstructorHandler) CreateCourseForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"fields": []string{"name", "description"}})
}

// CreateCourse godoc
// @Summary Create a course
// @Tags Instructors
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 302
// @Router /instructor/create_course [post]
func (h *InstructorHandler) CreateCourse(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course payload"))
		return
	}
	if _, err := h.catalog.CreateCourse(c.Request.Context(), session.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/instructor/dashboard")
}

// Manage godoc
// @Summary Course management view: course, materials, form descriptor
// @Tags Instructors
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /instructor/course/{course_id}/manage [get]
func (h *InstructorHandler) Manage(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courseID := c.Param("course_id")
	course, err := h.catalog.RequireOwnedCourse(c.Request.Context(), courseID, session.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	materials, err := h.materials.List(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"course":         course,
		"materials":      materials,
		"material_types": []string{"pdf", "image", "link", "video_url", "video_upload"},
	})
}

// AddMaterial godoc
// @Summary Attach a material to a course
// @Tags Instructors
// @Accept multipart/form-data
// @Produce json
// @Param course_id path string true "Course ID"
// @Param title formData string true "Title"
// @Param material_type formData string true "pdf, image, link, video_url or video_upload"
// @Param file formData file false "File for pdf/image/video_upload"
// @Param url formData string false "URL for link/video_url"
// @Success 302
// @Router /instructor/course/{course_id}/manage [post]
func (h *InstructorHandler) AddMaterial(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courseID := c.Param("course_id")

	var req service.AddMaterialRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid material payload"))
		return
	}

	var upload *service.MaterialUpload
	if fileHeader, err := c.FormFile("file"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
			return
		}
		defer src.Close()
		upload = &service.MaterialUpload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Content:  src,
		}
	}

	if _, err := h.materials.AddMaterial(c.Request.Context(), courseID, session.UserID, req, upload); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, fmt.Sprintf("/instructor/course/%s/manage", courseID))
}

// DeleteMaterial godoc
// @Summary Delete a material and its backing file
// @Tags Instructors
// @Param course_id path string true "Course ID"
// @Param material_id path string true "Material ID"
// @Success 302
// @Router /instructor/course/{course_id}/material/{material_id}/delete [get]
func (h *InstructorHandler) DeleteMaterial(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courseID := c.Param("course_id")
	if err := h.materials.DeleteMaterial(c.Request.Context(), courseID, c.Param("material_id"), session.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, fmt.Sprintf("/instructor/course/%s/manage", courseID))
}

// DeleteCourse godoc
// @Summary Delete a course with its enrollments and materials
// @Tags Instructors
// @Param course_id path string true "Course ID"
// @Success 302
// @Router /instructor/course/{course_id}/delete [get]
func (h *InstructorHandler) DeleteCourse(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.catalog.DeleteCourse(c.Request.Context(), c.Param("course_id"), session.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/instructor/dashboard")
}

// ExportRoster godoc
// @Summary Export the course roster as CSV or PDF
// @Tags Instructors
// @Produce octet-stream
// @Param course_id path string true "Course ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200
// @Router /instructor/course/{course_id}/roster/export [get]
func (h *InstructorHandler) ExportRoster(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.roster.Export(c.Request.Context(), c.Param("course_id"), session.UserID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
