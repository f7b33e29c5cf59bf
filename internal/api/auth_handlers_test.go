package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShivamHirwani/quick-desk/internal/auth"
	"github.com/ShivamHirwani/quick-desk/internal/config"
	"github.com/ShivamHirwani/quick-desk/internal/models"
	"github.com/ShivamHirwani/quick-desk/internal/repository"
	"github.com/ShivamHirwani/quick-desk/internal/session"
)

func newAuthRouter(db *sqlx.DB, sessions session.Store) *gin.Engine {
	var cfg config.AuthConfig
	cfg.Session.CookieName = "auth_token"

	handler := NewAuthHandler(
		repository.NewUserRepository(db),
		auth.NewJWTManager("test-secret", "quickdesk-test", time.Hour),
		sessions,
		cfg,
	)
	r := gin.New()
	r.POST("/api/v1/auth/register", handler.Register)
	r.POST("/api/v1/auth/login", handler.Login)
	return r
}

func TestRegisterForcesUserRole(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db, session.NewMemoryStore())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email").
		WithArgs("jo@example.com", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// Role is always user, whatever the body claims.
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "jo@example.com", sqlmock.AnyArg(), "Jo Smith", "user",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"full_name": "Jo Smith",
		"email":     "Jo@Example.com",
		"password":  "secret123",
		"role":      "admin",
	})
	requireStatus(t, w, http.StatusCreated)

	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	// The hash never leaks into the response.
	_, leaked := user["password_hash"]
	assert.False(t, leaked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db, session.NewMemoryStore())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email").
		WithArgs("jo@example.com", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"full_name": "Jo Smith",
		"email":     "jo@example.com",
		"password":  "secret123",
	})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "user already exists", errorMessage(t, w))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db, _ := newMockDB(t)
	router := newAuthRouter(db, session.NewMemoryStore())

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"full_name": "Jo Smith",
		"email":     "jo@example.com",
		"password":  "short",
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestLoginSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	sessions := session.NewMemoryStore()
	router := newAuthRouter(db, sessions)

	account := &models.User{
		ID: "u1", Email: "jo@example.com", FullName: "Jo Smith", Role: "user",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, account.SetPassword("secret123"))

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("jo@example.com").
		WillReturnRows(userRow(account))

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "Jo@Example.com",
		"password": "secret123",
	})
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	// The session cookie rides along with the body token.
	cookies := w.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "auth_token" && c.Value != "" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "expected auth_token cookie")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db, session.NewMemoryStore())

	account := &models.User{ID: "u1", Email: "jo@example.com", Role: "user"}
	require.NoError(t, account.SetPassword("secret123"))

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("jo@example.com").
		WillReturnRows(userRow(account))

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "jo@example.com",
		"password": "wrong-password",
	})
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, "invalid credentials", errorMessage(t, w))
}

func TestLoginUnknownEmail(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db, session.NewMemoryStore())

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	// Same message as a bad password, so the endpoint does not confirm which
	// accounts exist.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "ghost@example.com",
		"password": "whatever1",
	})
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, "invalid credentials", errorMessage(t, w))
}
