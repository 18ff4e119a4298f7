package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bengeek06/pm-users-api/internal/api/handlers"
	"github.com/bengeek06/pm-users-api/internal/testutil"
	"github.com/bengeek06/pm-users-api/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupVerifyTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	handler := handlers.NewVerifyHandler(users.NewStore(db), testLogger())

	r := chi.NewRouter()
	r.Post("/users/verify_password", handler.VerifyPassword)

	return r, db
}

func TestVerifyHandler_CorrectCredentials(t *testing.T) {
	router, db := setupVerifyTestRouter(t)
	user := testutil.CreateTestUser(t, db, "login@example.com", "s3cret")

	req := testutil.JSONRequest(t, http.MethodPost, "/users/verify_password", map[string]string{
		"email":    "login@example.com",
		"password": "s3cret",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, user.ID, body["user_id"])
	assert.Equal(t, user.CompanyID, body["company_id"])
	assert.NotContains(t, rr.Body.String(), user.HashedPassword)
}

func TestVerifyHandler_WrongPassword(t *testing.T) {
	router, db := setupVerifyTestRouter(t)
	testutil.CreateTestUser(t, db, "login@example.com", "s3cret")

	req := testutil.JSONRequest(t, http.MethodPost, "/users/verify_password", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	assert.Equal(t, false, body["valid"])
}

func TestVerifyHandler_UnknownEmail(t *testing.T) {
	router, _ := setupVerifyTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/users/verify_password", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)

	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	assert.Equal(t, false, body["valid"])
}

func TestVerifyHandler_MissingFields(t *testing.T) {
	router, _ := setupVerifyTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing password", map[string]string{"email": "a@b.com"}},
		{"missing email", map[string]string{"password": "pw"}},
		{"empty body", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPost, "/users/verify_password", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		})
	}
}
