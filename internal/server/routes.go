// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"github.com/labstack/echo/v4"

	"github.com/coursecraft/coursecraft/internal/config"
	"github.com/coursecraft/coursecraft/internal/handlers"
	appmiddleware "github.com/coursecraft/coursecraft/internal/middleware"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/auth"
	"github.com/coursecraft/coursecraft/internal/services/catalog"
	"github.com/coursecraft/coursecraft/internal/services/payment"
	"github.com/coursecraft/coursecraft/internal/services/storage"
)

type routerDeps struct {
	cfg            *config.Config
	repo           *repository.Repository
	authService    *auth.Service
	catalogService *catalog.Service
	paymentService *payment.Service
	uploader       storage.Uploader
}

func setupRoutes(e *echo.Echo, deps *routerDeps) {
	h := handlers.New(deps.repo)
	authH := handlers.NewAuth(deps.authService, &deps.cfg.Auth)
	profileH := handlers.NewProfile(deps.repo, deps.uploader)
	catalogH := handlers.NewCatalog(deps.repo, deps.catalogService)
	paymentH := handlers.NewPayment(deps.paymentService, deps.repo)

	authMW := appmiddleware.NewAuth(deps.repo, &deps.cfg.Auth)

	e.GET("/health", h.Health)

	api := e.Group("/api/v1")

	// Public auth endpoints
	api.POST("/auth/sendotp", authH.SendOTP)
	api.POST("/auth/signup", authH.Signup)
	api.POST("/auth/login", authH.Login)

	// Public catalog endpoints
	api.GET("/catalog/categories", catalogH.ListCategories)
	api.GET("/catalog/categories/:id", catalogH.CategoryPage)

	// Authenticated endpoints
	authed := api.Group("", authMW.Authenticate)
	authed.POST("/auth/changepassword", authH.ChangePassword)

	authed.GET("/profile", profileH.Get)
	authed.PUT("/profile", profileH.Update)
	authed.DELETE("/profile", profileH.Delete)
	authed.PUT("/profile/picture", profileH.UpdatePicture)

	// Student endpoints
	student := authed.Group("", authMW.RequireRole(models.AccountTypeStudent))
	student.POST("/payments/capture", paymentH.Capture)
	student.POST("/payments/verify", paymentH.Verify)
	student.GET("/enrollments", paymentH.Enrollments)

	// Instructor endpoints
	instructor := authed.Group("", authMW.RequireRole(models.AccountTypeInstructor))
	instructor.POST("/courses", catalogH.CreateCourse)
	instructor.POST("/courses/:id/publish", catalogH.PublishCourse)
	instructor.POST("/sections", catalogH.CreateSection)
	instructor.PUT("/sections", catalogH.UpdateSection)
	instructor.DELETE("/sections/:id", catalogH.DeleteSection)

	// Admin endpoints
	admin := authed.Group("", authMW.RequireRole(models.AccountTypeAdmin))
	admin.POST("/catalog/categories", catalogH.CreateCategory)
}
