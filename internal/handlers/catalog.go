// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/middleware"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/catalog"
)

// CatalogHandlers contains handlers for categories, courses and sections.
type CatalogHandlers struct {
	repo    *repository.Repository
	service *catalog.Service
}

// NewCatalog creates a new CatalogHandlers instance.
func NewCatalog(repo *repository.Repository, service *catalog.Service) *CatalogHandlers {
	return &CatalogHandlers{repo: repo, service: service}
}

// CreateCategoryRequest is the request body for category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory adds a new category. Admin only.
func (h *CatalogHandlers) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	cat, err := h.repo.CreateCategory(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusCreated, "Category created successfully", echo.Map{
		"category": cat,
	})
}

// ListCategories returns all categories.
func (h *CatalogHandlers) ListCategories(c echo.Context) error {
	cats, err := h.repo.ListCategories(c.Request().Context())
	if err != nil {
		return failure(c, err)
	}
	return respond(c, http.StatusOK, "All categories returned successfully", echo.Map{
		"categories": cats,
	})
}

// CategoryPage returns the browsing view for one category.
func (h *CatalogHandlers) CategoryPage(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category id")
	}

	page, err := h.service.CategoryPage(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "Category page fetched successfully", echo.Map{
		"data": page,
	})
}

// CreateCourseRequest is the request body for course creation.
type CreateCourseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	Price       int64  `json:"price"`
	Publish     bool   `json:"publish"`
}

// CreateCourse adds a new course owned by the authenticated instructor.
func (h *CatalogHandlers) CreateCourse(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Name == "" || req.Price < 0 {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	course := &models.Course{
		Name:         req.Name,
		Description:  req.Description,
		InstructorID: claims.UserID,
		Price:        req.Price,
		Status:       models.CourseStatusDraft,
	}
	if req.CategoryID != 0 {
		if _, err := h.repo.GetCategoryByID(c.Request().Context(), req.CategoryID); err != nil {
			return failure(c, err)
		}
		course.CategoryID = &req.CategoryID
	}
	if req.Publish {
		course.Status = models.CourseStatusPublished
	}

	if err := h.repo.CreateCourse(c.Request().Context(), course); err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusCreated, "Course created successfully", echo.Map{
		"course": course,
	})
}

// PublishCourse moves an instructor's own course to Published.
func (h *CatalogHandlers) PublishCourse(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid course id")
	}
	course, err := h.repo.GetCourseByID(c.Request().Context(), id)
	if err != nil {
		return failure(c, err)
	}
	if course.InstructorID != claims.UserID {
		return fail(c, http.StatusForbidden, "You do not own this course")
	}

	if err := h.repo.UpdateCourseStatus(c.Request().Context(), id, models.CourseStatusPublished); err != nil {
		return failure(c, err)
	}
	return success(c, "Course published successfully")
}

// CreateSectionRequest is the request body for section creation.
type CreateSectionRequest struct {
	CourseID int64  `json:"courseId"`
	Name     string `json:"sectionName"`
}

// CreateSection adds a section to a course the instructor owns.
func (h *CatalogHandlers) CreateSection(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req CreateSectionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Name == "" || req.CourseID == 0 {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	course, err := h.repo.GetCourseByID(c.Request().Context(), req.CourseID)
	if err != nil {
		return failure(c, err)
	}
	if course.InstructorID != claims.UserID {
		return fail(c, http.StatusForbidden, "You do not own this course")
	}

	section, err := h.repo.CreateSection(c.Request().Context(), req.CourseID, req.Name)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusCreated, "Section created successfully", echo.Map{
		"section": section,
	})
}

// UpdateSectionRequest is the request body for renaming a section.
type UpdateSectionRequest struct {
	SectionID int64  `json:"sectionId"`
	Name      string `json:"sectionName"`
}

// UpdateSection renames a section of a course the instructor owns.
func (h *CatalogHandlers) UpdateSection(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req UpdateSectionRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.Name == "" || req.SectionID == 0 {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	if err := h.authorizeSection(c, claims.UserID, req.SectionID); err != nil {
		if errors.Is(err, errNotCourseOwner) {
			return fail(c, http.StatusForbidden, "You do not own this course")
		}
		return failure(c, err)
	}

	if err := h.repo.RenameSection(c.Request().Context(), req.SectionID, req.Name); err != nil {
		return failure(c, err)
	}
	return success(c, "Section updated successfully")
}

// DeleteSection removes a section of a course the instructor owns.
func (h *CatalogHandlers) DeleteSection(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid section id")
	}

	if err := h.authorizeSection(c, claims.UserID, id); err != nil {
		if errors.Is(err, errNotCourseOwner) {
			return fail(c, http.StatusForbidden, "You do not own this course")
		}
		return failure(c, err)
	}

	if err := h.repo.DeleteSection(c.Request().Context(), id); err != nil {
		return failure(c, err)
	}
	return success(c, "Section deleted successfully")
}

var errNotCourseOwner = errors.New("not the course owner")

// authorizeSection verifies the section belongs to a course owned by the
// given instructor.
func (h *CatalogHandlers) authorizeSection(c echo.Context, instructorID, sectionID int64) error {
	section, err := h.repo.GetSectionByID(c.Request().Context(), sectionID)
	if err != nil {
		return err
	}
	course, err := h.repo.GetCourseByID(c.Request().Context(), section.CourseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return errNotCourseOwner
	}
	return nil
}
