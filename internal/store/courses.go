package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Course struct {
	ID          int64  `db:"id"`
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Instructor  string `db:"instructor"`
	Duration    string `db:"duration"`
	Level       string `db:"level"`
	Category    string `db:"category"`
	Image       string `db:"image"`
	Featured    bool   `db:"featured"`
}

// Enrollment is a course in a student's dashboard.
type Enrollment struct {
	CourseID   int64     `db:"course_id"`
	Title      string    `db:"title"`
	Progress   int       `db:"progress"`
	NextLesson string    `db:"next_lesson"`
	EnrolledAt time.Time `db:"enrolled_at"`
}

// Complete reports whether the course is finished.
func (e Enrollment) Complete() bool { return e.Progress >= 100 }

type CourseStore struct {
	db *sqlx.DB
}

func NewCourseStore(db *sqlx.DB) *CourseStore {
	return &CourseStore{db: db}
}

// ListFeatured returns the courses shown on the home page.
func (s *CourseStore) ListFeatured(ctx context.Context) ([]*Course, error) {
	var courses []*Course
	err := s.db.SelectContext(ctx, &courses, `SELECT * FROM courses WHERE featured = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list featured courses: %w", err)
	}
	return courses, nil
}

func (s *CourseStore) GetByID(ctx context.Context, id int64) (*Course, error) {
	var c Course
	if err := s.db.GetContext(ctx, &c, s.db.Rebind(`SELECT * FROM courses WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListEnrollments returns the user's courses with progress, oldest first.
func (s *CourseStore) ListEnrollments(ctx context.Context, userID string) ([]*Enrollment, error) {
	var out []*Enrollment
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`
		SELECT e.course_id, c.title, e.progress, COALESCE(l.title, '') AS next_lesson, e.enrolled_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		LEFT JOIN lessons l ON l.id = e.next_lesson_id
		WHERE e.user_id = ?
		ORDER BY e.enrolled_at, e.course_id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return out, nil
}

// Enroll adds the course to the user's dashboard starting at its first
// lesson. Enrolling twice is a no-op.
func (s *CourseStore) Enroll(ctx context.Context, userID string, courseID int64) error {
	if _, err := s.GetByID(ctx, courseID); err != nil {
		return err
	}
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM enrollments WHERE user_id = ? AND course_id = ?`), userID, courseID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO enrollments (user_id, course_id, progress, next_lesson_id, enrolled_at)
		VALUES (?, ?, 0, (SELECT MIN(id) FROM lessons WHERE course_id = ?), ?)`),
		userID, courseID, courseID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	return nil
}
