package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/middleware"
	"github.com/opencampus/lms-api/internal/models"
	"github.com/opencampus/lms-api/internal/service"
	"github.com/opencampus/lms-api/pkg/config"
)

// Handlers groups everything Register needs to wire the route table.
type Handlers struct {
	Auth       *AuthHandler
	Courses    *CourseHandler
	Students   *StudentHandler
	Instructor *InstructorHandler
	Metrics    *MetricsHandler
}

// Register attaches all application routes to the engine.
func Register(r *gin.Engine, h Handlers, auth *service.AuthService, cfg *config.Config) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "campus-lms", "status": "ok"})
	})
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	r.GET("/register", h.Auth.RegisterForm)
	r.POST("/register", h.Auth.Register)
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	r.GET("/course/:course_id", h.Courses.Show)
	r.Static("/uploads", cfg.Uploads.Dir)

	session := middleware.Session(auth, cfg.Session.CookieName)

	student := r.Group("/student", session, middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/dashboard", h.Students.Dashboard)
		student.POST("/dashboard", h.Students.Dashboard)
		student.GET("/enroll/:course_id", h.Students.Enroll)
		student.GET("/unenroll/:course_id", h.Students.Unenroll)
	}

	instructor := r.Group("/instructor", session, middleware.RequireRoles(models.RoleInstructor))
	{
		instructor.GET("/dashboard", h.Instructor.Dashboard)
		instructor.GET("/create_course", h.Instructor.CreateCourseForm)
		instructor.POST("/create_course", h.Instructor.CreateCourse)
		instructor.GET("/course/:course_id/manage", h.Instructor.Manage)
		instructor.POST("/course/:course_id/manage", h.Instructor.AddMaterial)
		instructor.GET("/course/:course_id/material/:material_id/delete", h.Instructor.DeleteMaterial)
		instructor.GET("/course/:course_id/delete", h.Instructor.DeleteCourse)
		instructor.GET("/course/:course_id/roster/export", h.Instructor.ExportRoster)
	}
}
