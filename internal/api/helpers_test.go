package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/api"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	store  *repository.Store
	files  *testhelpers.FakeFileStore
	auth   *service.AuthService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testhelpers.SetupTestDatabase(t)
	store := repository.New(db)
	files := testhelpers.NewFakeFileStore()
	auth := service.NewAuthService("test-secret")

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	group := router.Group("/api")
	api.NewRecipeHandler(service.NewRecipeService(store, files), auth, api.RateLimiters{}).RegisterRoutes(group)
	api.NewUserHandler(service.NewUserService(store, files, auth), service.NewSubscriberService(store), auth, api.RateLimiters{}).RegisterRoutes(group)

	return &testAPI{router: router, db: db, store: store, files: files, auth: auth}
}

// login creates a user and returns it with a bearer token
func (a *testAPI) login(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, a.db, name, name+"-"+uuid.NewString()[:8]+"@example.com", "secret1")
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, token)
}

type filePart struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, file *filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.field, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func recipeFields() map[string]string {
	return map[string]string{
		"title":        "Tomato soup",
		"description":  "A warm bowl for cold evenings",
		"ingredients":  `["tomatoes","salt","basil"]`,
		"instructions": "Simmer for 20 minutes, then blend.",
		"isPureVeg":    "true",
	}
}

func thumbnail(size int) *filePart {
	return &filePart{field: "thumbnail", name: "soup.png", data: bytes.Repeat([]byte("x"), size)}
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Message
}

// createRecipe posts a valid recipe and returns it
func (a *testAPI) createRecipe(t *testing.T, token string) models.Recipe {
	t.Helper()
	w := a.do(multipartRequest(t, http.MethodPost, "/api/recipes", recipeFields(), thumbnail(64)), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe
}
