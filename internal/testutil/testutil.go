// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursecraft/coursecraft/internal/database"
	"github.com/coursecraft/coursecraft/internal/models"
	"github.com/coursecraft/coursecraft/internal/repository"
	"github.com/coursecraft/coursecraft/internal/services/payment"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// TestPassword is the plaintext password used by NewTestUser.
const TestPassword = "test-password-123"

// NewTestUser creates a user with the given email and account type. The
// password is TestPassword.
func NewTestUser(t *testing.T, repo *repository.Repository, email string, accountType models.AccountType) *models.User {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	profile := &models.Profile{}
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
		AccountType:  accountType,
		Approved:     true,
	}
	require.NoError(t, repo.CreateUserWithProfile(ctx, profile, user))
	return user
}

// NewTestCourse creates a published course owned by the given instructor.
func NewTestCourse(t *testing.T, repo *repository.Repository, instructorID int64, name string, price int64) *models.Course {
	t.Helper()
	course := &models.Course{
		Name:         name,
		Description:  "A test course",
		InstructorID: instructorID,
		Price:        price,
		Status:       models.CourseStatusPublished,
	}
	require.NoError(t, repo.CreateCourse(context.Background(), course))
	return course
}

// FakeMailer records sent messages instead of delivering them.
type FakeMailer struct {
	mu       sync.Mutex
	Messages []FakeMessage
	Err      error
}

// FakeMessage is one recorded mail.
type FakeMessage struct {
	To      string
	Subject string
	Body    string
}

func (m *FakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, FakeMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *FakeMailer) Sent() []FakeMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FakeMessage(nil), m.Messages...)
}

// FakeProvider returns canned gateway orders.
type FakeProvider struct {
	NextOrderID string
	Err         error
}

func (p *FakeProvider) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payment.Order, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	id := p.NextOrderID
	if id == "" {
		id = "order_test"
	}
	return &payment.Order{ID: id, Amount: amount, Currency: currency, Receipt: receipt}, nil
}

// FakeUploader records uploads and returns deterministic URLs.
type FakeUploader struct {
	Keys []string
	Err  error
}

func (u *FakeUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}
	_, _ = io.Copy(io.Discard, body)
	u.Keys = append(u.Keys, key)
	return "https://cdn.test/" + key, nil
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
