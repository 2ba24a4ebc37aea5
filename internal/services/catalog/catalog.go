// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package catalog assembles the category browsing views.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrNoPublishedCourses = errors.New("no published courses in this category")
)

const topSellingLimit = 10

// CategoryWithCourses pairs a category with its published courses.
type CategoryWithCourses struct {
	Category models.Category `json:"category"`
	Courses  []models.Course `json:"courses"`
}

// CategoryPage is the browsing view for one category: its own published
// courses, one other category for discovery, and the overall best sellers.
type CategoryPage struct {
	Selected           CategoryWithCourses  `json:"selectedCategory"`
	Different          *CategoryWithCourses `json:"differentCategory"`
	MostSellingCourses []models.Course      `json:"mostSellingCourses"`
}

// Service builds catalog views over the repository.
type Service struct {
	repo *repository.Repository
}

// NewService constructs the catalog service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// CategoryPage assembles the category browsing view. The "different"
// category is chosen at random among the others; it is nil when the
// selected category is the only one.
func (s *Service) CategoryPage(ctx context.Context, categoryID int64) (*CategoryPage, error) {
	selected, err := s.repo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	courses, err := s.repo.ListPublishedCoursesByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	if len(courses) == 0 {
		return nil, ErrNoPublishedCourses
	}

	page := &CategoryPage{
		Selected: CategoryWithCourses{Category: *selected, Courses: courses},
	}

	others, err := s.repo.ListCategoriesExcept(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load other categories: %w", err)
	}
	if len(others) > 0 {
		pick := others[rand.IntN(len(others))]
		otherCourses, err := s.repo.ListPublishedCoursesByCategory(ctx, pick.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load courses: %w", err)
		}
		page.Different = &CategoryWithCourses{Category: pick, Courses: otherCourses}
	}

	top, err := s.repo.TopSellingCourses(ctx, topSellingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top selling courses: %w", err)
	}
	page.MostSellingCourses = top

	return page, nil
}
