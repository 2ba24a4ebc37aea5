// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/middleware"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/storage"
)

// ProfileHandlers contains handlers for profile management.
type ProfileHandlers struct {
	repo     *repository.Repository
	uploader storage.Uploader
}

// NewProfile creates a new ProfileHandlers instance.
func NewProfile(repo *repository.Repository, uploader storage.Uploader) *ProfileHandlers {
	return &ProfileHandlers{repo: repo, uploader: uploader}
}

// Get returns the authenticated user together with their profile details.
func (h *ProfileHandlers) Get(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	user, err := h.repo.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return failure(c, err)
	}
	profile, err := h.repo.GetProfileByID(c.Request().Context(), user.ProfileID)
	if err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "User data fetched successfully", echo.Map{
		"user":    user,
		"profile": profile,
	})
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Gender        string `json:"gender"`
	DateOfBirth   string `json:"dateOfBirth"`
	About         string `json:"about"`
	ContactNumber string `json:"contactNumber"`
}

// Update changes the authenticated user's profile details.
func (h *ProfileHandlers) Update(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request")
	}
	if req.ContactNumber == "" || req.Gender == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	user, err := h.repo.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return failure(c, err)
	}
	profile, err := h.repo.GetProfileByID(c.Request().Context(), user.ProfileID)
	if err != nil {
		return failure(c, err)
	}

	profile.Gender = &req.Gender
	profile.ContactNumber = &req.ContactNumber
	if req.DateOfBirth != "" {
		profile.DateOfBirth = &req.DateOfBirth
	}
	if req.About != "" {
		profile.About = &req.About
	}

	if err := h.repo.UpdateProfile(c.Request().Context(), profile); err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "Profile updated successfully", echo.Map{
		"profile": profile,
	})
}

// Delete removes the authenticated user's account and the profile it owns.
func (h *ProfileHandlers) Delete(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	if err := h.repo.DeleteUserCascade(c.Request().Context(), claims.UserID); err != nil {
		return failure(c, err)
	}

	return success(c, "User deleted successfully")
}

// UpdatePicture uploads a new display picture to the object store and
// records its URL on the user.
func (h *ProfileHandlers) UpdatePicture(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "Token missing")
	}

	fileHeader, err := c.FormFile("displayPicture")
	if err != nil {
		return fail(c, http.StatusBadRequest, "No file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return failure(c, err)
	}
	defer func() { _ = file.Close() }()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	imageURL, err := h.uploader.Upload(c.Request().Context(), storage.AvatarKey(), contentType, file)
	if err != nil {
		return failure(c, err)
	}

	if err := h.repo.UpdateUserImage(c.Request().Context(), claims.UserID, imageURL); err != nil {
		return failure(c, err)
	}

	return respond(c, http.StatusOK, "Image updated successfully", echo.Map{
		"image": imageURL,
	})
}
