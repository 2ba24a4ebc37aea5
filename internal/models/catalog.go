// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// CourseStatus enumerates the publication states of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "Draft"
	CourseStatusPublished CourseStatus = "Published"
)

type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Course is the minimal course entity: enough to hang sections, catalog
// pages, and enrollments off of. Price is in the smallest currency unit.
type Course struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64        `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Description  string       `db:"description" json:"description"`
	InstructorID int64        `db:"instructor_id" json:"instructorId"`
	CategoryID   *int64       `db:"category_id" json:"categoryId"`
	Price        int64        `db:"price" json:"price"`
	Status       CourseStatus `db:"status" json:"status"`
	Sold         int64        `db:"sold" json:"sold"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

type Section struct {
	ID        int64     `db:"id" json:"id"`
	CourseID  int64     `db:"course_id" json:"courseId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
