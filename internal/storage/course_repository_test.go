package storage

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/CSEN-174-W25/csen-174-thebteam/internal/errors"
)

func testCourse() Course {
	return Course{
		DocID:       "CSEN-174",
		College:     "SOE",
		Department:  "Computer Science and Engineering",
		Number:      "174",
		Title:       "Software Engineering",
		Description: "Software development lifecycle.",
		Tag:         "CSEN",
		PreReqs:     "Prerequisite: CSEN 146.",
	}
}

func TestSaveAndGetCourse(t *testing.T) {
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCourseRepository(db)
	ctx := context.Background()

	if err := repo.SaveCourse(ctx, testCourse()); err != nil {
		t.Fatalf("SaveCourse failed: %v", err)
	}

	got, err := repo.GetCourse(ctx, "CSEN-174")
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if *got != testCourse() {
		t.Errorf("got %+v, want %+v", *got, testCourse())
	}
}

func TestGetCourseNotFound(t *testing.T) {
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	_, err = NewCourseRepository(db).GetCourse(context.Background(), "NOPE-999")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveCourseUpsert(t *testing.T) {
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCourseRepository(db)
	ctx := context.Background()

	c := testCourse()
	if err := repo.SaveCourse(ctx, c); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	c.Description = "Revised description."
	if err := repo.SaveCourse(ctx, c); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := repo.GetCourse(ctx, c.DocID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if got.Description != "Revised description." {
		t.Errorf("description = %q", got.Description)
	}

	count, err := repo.CountCourses(ctx)
	if err != nil {
		t.Fatalf("CountCourses failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 course after upsert, got %d", count)
	}
}

func TestAddCourseGeneratesID(t *testing.T) {
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCourseRepository(db)
	c := testCourse()
	c.DocID = ""

	id, err := repo.AddCourse(context.Background(), c)
	if err != nil {
		t.Fatalf("AddCourse failed: %v", err)
	}
	if id == "" {
		t.Fatal("AddCourse returned empty ID")
	}

	if _, err := repo.GetCourse(context.Background(), id); err != nil {
		t.Fatalf("course not retrievable under generated ID: %v", err)
	}
}

func TestSaveBatchAndListDocIDs(t *testing.T) {
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCourseRepository(db)
	ctx := context.Background()

	courses := []Course{testCourse()}
	second := testCourse()
	second.DocID = "CSEN-146"
	second.Number = "146"
	second.Title = "Computer Networks"
	courses = append(courses, second)

	if err := repo.SaveBatch(ctx, courses); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	ids, err := repo.ListDocIDs(ctx)
	if err != nil {
		t.Fatalf("ListDocIDs failed: %v", err)
	}
	if len(ids) != 2 || !ids["CSEN-174"] || !ids["CSEN-146"] {
		t.Errorf("ids = %v", ids)
	}
}

func TestListCourses(t *testing.T) {
	db, err := NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewCourseRepository(db)
	ctx := context.Background()

	second := testCourse()
	second.DocID = "CSEN-146"
	second.Number = "146"
	second.Title = "Computer Networks"
	if err := repo.SaveBatch(ctx, []Course{testCourse(), second}); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	courses, err := repo.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("ListCourses returned %d courses, want 2", len(courses))
	}
	// Ordered by doc id.
	if courses[0].DocID != "CSEN-146" || courses[1].DocID != "CSEN-174" {
		t.Errorf("order = %s, %s", courses[0].DocID, courses[1].DocID)
	}
}
