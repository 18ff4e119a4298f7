package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bengeek06/pm-users-api/internal/api/dto"
	"github.com/bengeek06/pm-users-api/internal/api/handlers"
	"github.com/bengeek06/pm-users-api/internal/refclient"
	"github.com/bengeek06/pm-users-api/internal/testutil"
	"github.com/bengeek06/pm-users-api/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupUserTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := testLogger()
	store := users.NewStore(db)
	validator := users.NewValidator(store, refclient.New("", "", "testing", logger))
	handler := handlers.NewUserHandler(store, validator, logger)

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Replace)
		r.Patch("/{id}", handler.Patch)
		r.Delete("/{id}", handler.Delete)
	})

	return r, db
}

func TestUserHandler_Create(t *testing.T) {
	router, _ := setupUserTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/users", map[string]interface{}{
		"email":      "a@b.com",
		"password":   "pw",
		"company_id": "7b68a54e-02e2-4b32-a1b9-8ad1f0f0a6c3",
		"role_id":    1,
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)

	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	assert.Equal(t, "a@b.com", body["email"])
	assert.NotEmpty(t, body["id"])

	// Neither the password nor its hash ever leaves the service.
	assert.NotContains(t, rr.Body.String(), "pw")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "hashed_password")
}

func TestUserHandler_Create_MissingPassword(t *testing.T) {
	router, _ := setupUserTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/users", map[string]interface{}{
		"email": "a@b.com",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Contains(t, resp.Details, "password")
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	router, db := setupUserTestRouter(t)
	testutil.CreateTestUser(t, db, "dup@example.com")

	req := testutil.JSONRequest(t, http.MethodPost, "/users", map[string]interface{}{
		"email":    "dup@example.com",
		"password": "pw",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Contains(t, resp.Details, "email")
}

func TestUserHandler_Get(t *testing.T) {
	router, db := setupUserTestRouter(t)
	user := testutil.CreateTestUser(t, db, "get@example.com")

	req := testutil.JSONRequest(t, http.MethodGet, "/users/"+user.ID, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	assert.Equal(t, user.ID, body["id"])
	assert.Equal(t, "get@example.com", body["email"])
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	router, _ := setupUserTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodGet, "/users/does-not-exist", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestUserHandler_List_ExcludesPasswordHash(t *testing.T) {
	router, db := setupUserTestRouter(t)
	testutil.CreateTestUser(t, db, "one@example.com")
	testutil.CreateTestUser(t, db, "two@example.com")

	req := testutil.JSONRequest(t, http.MethodGet, "/users", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var body []map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	require.Len(t, body, 2)
	for _, u := range body {
		assert.NotContains(t, u, "hashed_password")
	}
}

func TestUserHandler_Replace(t *testing.T) {
	router, db := setupUserTestRouter(t)
	user := testutil.CreateTestUser(t, db, "old@example.com")

	req := testutil.JSONRequest(t, http.MethodPut, "/users/"+user.ID, map[string]interface{}{
		"email":     "new@example.com",
		"firstname": "Renamed",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)

	var body map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &body)
	assert.Equal(t, "new@example.com", body["email"])
	assert.Equal(t, "Renamed", body["firstname"])
}

func TestUserHandler_Replace_RequiresEmail(t *testing.T) {
	router, db := setupUserTestRouter(t)
	user := testutil.CreateTestUser(t, db, "keep@example.com")

	req := testutil.JSONRequest(t, http.MethodPut, "/users/"+user.ID, map[string]interface{}{
		"firstname": "NoEmail",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestUserHandler_Patch_FirstnameTooLong(t *testing.T) {
	router, db := setupUserTestRouter(t)
	user := testutil.CreateTestUser(t, db, "patch@example.com")

	req := testutil.JSONRequest(t, http.MethodPatch, "/users/"+user.ID, map[string]interface{}{
		"firstname": strings.Repeat("X", 81),
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Contains(t, resp.Details["firstname"], "80")
}

func TestUserHandler_Patch_OwnEmailSucceeds(t *testing.T) {
	router, db := setupUserTestRouter(t)
	user := testutil.CreateTestUser(t, db, "self@example.com")

	req := testutil.JSONRequest(t, http.MethodPatch, "/users/"+user.ID, map[string]interface{}{
		"email": "self@example.com",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestUserHandler_Delete(t *testing.T) {
	router, db := setupUserTestRouter(t)
	user := testutil.CreateTestUser(t, db, "del@example.com")

	req := testutil.JSONRequest(t, http.MethodDelete, "/users/"+user.ID, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	req = testutil.JSONRequest(t, http.MethodGet, "/users/"+user.ID, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	router, _ := setupUserTestRouter(t)

	req := testutil.JSONRequest(t, http.MethodDelete, "/users/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
