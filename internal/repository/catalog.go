// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/coursecraft/coursecraft/internal/models"
)

// ===== Categories =====

// CreateCategory creates a new category. Names are unique.
func (r *Repository) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	cat := &models.Category{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at) VALUES (?, ?, ?)`,
		cat.Name, cat.Description, cat.CreatedAt)
	if err != nil {
		return nil, wrapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	cat.ID = id
	return cat, nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.SelectContext(ctx, &cats, `SELECT * FROM categories ORDER BY name`); err != nil {
		return nil, err
	}
	return cats, nil
}

// GetCategoryByID retrieves a category by ID.
func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var cat models.Category
	if err := r.db.GetContext(ctx, &cat, `SELECT * FROM categories WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &cat, nil
}

// ListCategoriesExcept returns all categories other than the given one.
func (r *Repository) ListCategoriesExcept(ctx context.Context, id int64) ([]models.Category, error) {
	var cats []models.Category
	if err := r.db.SelectContext(ctx, &cats, `SELECT * FROM categories WHERE id != ? ORDER BY name`, id); err != nil {
		return nil, err
	}
	return cats, nil
}

// ===== Courses =====

// CreateCourse creates a new course owned by an instructor.
func (r *Repository) CreateCourse(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	if course.Status == "" {
		course.Status = models.CourseStatusDraft
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (name, description, instructor_id, category_id, price, status, sold, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		course.Name, course.Description, course.InstructorID, course.CategoryID,
		course.Price, course.Status, course.CreatedAt, course.UpdatedAt)
	if err != nil {
		return wrapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	course.ID = id
	return nil
}

// GetCourseByID retrieves a course by ID.
func (r *Repository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT * FROM courses WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &course, nil
}

// UpdateCourseStatus moves a course between Draft and Published.
func (r *Repository) UpdateCourseStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	return wrapError(err)
}

// ListPublishedCoursesByCategory returns a category's published courses.
func (r *Repository) ListPublishedCoursesByCategory(ctx context.Context, categoryID int64) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.SelectContext(ctx, &courses,
		`SELECT * FROM courses WHERE category_id = ? AND status = ? ORDER BY created_at DESC`,
		categoryID, models.CourseStatusPublished)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// TopSellingCourses returns the best selling published courses across all
// categories, newest first among equals.
func (r *Repository) TopSellingCourses(ctx context.Context, limit int) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.SelectContext(ctx, &courses,
		`SELECT * FROM courses WHERE status = ? ORDER BY sold DESC, created_at DESC LIMIT ?`,
		models.CourseStatusPublished, limit)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// ===== Sections =====

// CreateSection creates a section attached to a course.
func (r *Repository) CreateSection(ctx context.Context, courseID int64, name string) (*models.Section, error) {
	now := time.Now().UTC()
	section := &models.Section{
		CourseID:  courseID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (course_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		section.CourseID, section.Name, section.CreatedAt, section.UpdatedAt)
	if err != nil {
		return nil, wrapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	section.ID = id
	return section, nil
}

// GetSectionByID retrieves a section by ID.
func (r *Repository) GetSectionByID(ctx context.Context, id int64) (*models.Section, error) {
	var section models.Section
	if err := r.db.GetContext(ctx, &section, `SELECT * FROM sections WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &section, nil
}

// ListSectionsByCourse returns a course's sections in creation order.
func (r *Repository) ListSectionsByCourse(ctx context.Context, courseID int64) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.SelectContext(ctx, &sections,
		`SELECT * FROM sections WHERE course_id = ? ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// RenameSection updates a section's name.
func (r *Repository) RenameSection(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sections SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSection removes a section.
func (r *Repository) DeleteSection(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return wrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
