package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/CSEN-174-W25/csen-174-thebteam/internal/errors"
)

// CourseRepository stores and loads course records.
type CourseRepository struct {
	db *DB
}

// NewCourseRepository creates a course repository.
func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseUpsert = `
INSERT INTO courses (doc_id, college, department, number, title, description, tag, pre_reqs, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(doc_id) DO UPDATE SET
	college = excluded.college,
	department = excluded.department,
	number = excluded.number,
	title = excluded.title,
	description = excluded.description,
	tag = excluded.tag,
	pre_reqs = excluded.pre_reqs,
	updated_at = excluded.updated_at
`

// SaveCourse writes one course under its document ID.
func (r *CourseRepository) SaveCourse(ctx context.Context, c Course) error {
	if c.DocID == "" {
		return fmt.Errorf("course %s %s has no document ID", c.Tag, c.Number)
	}

	_, err := r.db.conn.ExecContext(ctx, courseUpsert,
		c.DocID, c.College, c.Department, c.Number, c.Title, c.Description, c.Tag, c.PreReqs,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save course %s: %w", c.DocID, err)
	}
	return nil
}

// AddCourse stores a course under a freshly generated ID and returns it.
func (r *CourseRepository) AddCourse(ctx context.Context, c Course) (string, error) {
	c.DocID = uuid.NewString()
	if err := r.SaveCourse(ctx, c); err != nil {
		return "", err
	}
	return c.DocID, nil
}

// SaveBatch writes a batch of courses in one transaction.
func (r *CourseRepository) SaveBatch(ctx context.Context, courses []Course) error {
	if len(courses) == 0 {
		return nil
	}

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, courseUpsert)
	if err != nil {
		return fmt.Errorf("failed to prepare batch statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().Unix()
	for _, c := range courses {
		if c.DocID == "" {
			return fmt.Errorf("course %s %s has no document ID", c.Tag, c.Number)
		}
		if _, err := stmt.ExecContext(ctx,
			c.DocID, c.College, c.Department, c.Number, c.Title, c.Description, c.Tag, c.PreReqs, now); err != nil {
			return fmt.Errorf("failed to save course %s in batch: %w", c.DocID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// GetCourse loads one course by document ID.
func (r *CourseRepository) GetCourse(ctx context.Context, docID string) (*Course, error) {
	query := `
	SELECT doc_id, college, department, number, title, description, tag, pre_reqs
	FROM courses WHERE doc_id = ?
	`

	var c Course
	err := r.db.conn.QueryRowContext(ctx, query, docID).Scan(
		&c.DocID, &c.College, &c.Department, &c.Number, &c.Title, &c.Description, &c.Tag, &c.PreReqs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load course %s: %w", docID, err)
	}

	return &c, nil
}

// ListDocIDs returns every stored document ID. The ingest pipeline
// preloads these so duplicate resolution sees prior runs.
func (r *CourseRepository) ListDocIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT doc_id FROM courses`)
	if err != nil {
		return nil, fmt.Errorf("failed to list document IDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document ID: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// ListCourses returns every stored course ordered by document ID. The
// server loads these at startup to build the keyword index.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]Course, error) {
	query := `
	SELECT doc_id, college, department, number, title, description, tag, pre_reqs
	FROM courses ORDER BY doc_id
	`
	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var courses []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(
			&c.DocID, &c.College, &c.Department, &c.Number, &c.Title, &c.Description, &c.Tag, &c.PreReqs); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CountCourses returns the number of stored courses.
func (r *CourseRepository) CountCourses(ctx context.Context) (int, error) {
	var count int
	if err := r.db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}
