package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opencampus/lms-api/internal/models"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
	"github.com/opencampus/lms-api/pkg/export"
)

type rosterEnrollmentLister interface {
	ListDetailByCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error)
}

// RosterExport bundles rendered bytes with download metadata.
type RosterExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RosterService renders the enrolled-student roster of an owned course as
// CSV or PDF.
type RosterService struct {
	enrollments rosterEnrollmentLister
	courses     ownedCourseResolver
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewRosterService constructs RosterService.
func NewRosterService(enrollments rosterEnrollmentLister, courses ownedCourseResolver, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		enrollments: enrollments,
		courses:     courses,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Export renders the course roster in the requested format ("csv" or "pdf").
func (s *RosterService) Export(ctx context.Context, courseID, callerID, format string) (*RosterExport, error) {
	course, err := s.courses.RequireOwnedCourse(ctx, courseID, callerID)
	if err != nil {
		return nil, err
	}

	roster, err := s.enrollments.ListDetailByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	dataset := export.Dataset{
		Headers: []string{"Username", "Email", "Enrolled At"},
		Rows:    make([]map[string]string, 0, len(roster)),
	}
	for _, entry := range roster {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Username":    entry.StudentName,
			"Email":       entry.StudentEmail,
			"Enrolled At": entry.EnrolledAt.Format("2006-01-02 15:04"),
		})
	}

	switch format {
	case "", "csv":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &RosterExport{
			Filename:    fmt.Sprintf("roster_%s.csv", course.ID),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case "pdf":
		data, err := s.pdf.Render(dataset, fmt.Sprintf("%s roster", course.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &RosterExport{
			Filename:    fmt.Sprintf("roster_%s.pdf", course.ID),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
