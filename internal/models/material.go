package models

import "time"

// MaterialType is the stored variant of a course material. Submitted
// video_url and video_upload both normalise to MaterialVideo.
type MaterialType string

const (
	MaterialPDF   MaterialType = "pdf"
	MaterialImage MaterialType = "image"
	MaterialLink  MaterialType = "link"
	MaterialVideo MaterialType = "video"
)

// CourseMaterial references either a stored file (FilePath) or an external
// URL, never both.
type CourseMaterial struct {
	ID        string       `db:"id" json:"id"`
	CourseID  string       `db:"course_id" json:"course_id"`
	Type      MaterialType `db:"material_type" json:"material_type"`
	Title     string       `db:"title" json:"title"`
	FilePath  string       `db:"file_path" json:"file_path,omitempty"`
	URL       string       `db:"url" json:"url,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
