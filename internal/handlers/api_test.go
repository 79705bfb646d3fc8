package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"todoweb/internal/dto"
	"todoweb/internal/handlers"
	"todoweb/internal/repo"
	"todoweb/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIRouter(t *testing.T) (*gin.Engine, *service.TodoService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewTodoService(repo.NewMemTodoRepo(), nil)
	handlers.NewAPIHandler(svc).Register(r.Group("/api/v1"))
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) dto.TodoResponse {
	t.Helper()
	var resp dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAPICreateAndList(t *testing.T) {
	r, _ := newAPIRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/todos", gin.H{
		"title":    "Buy milk",
		"due_date": "2025-01-10",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeTodo(t, w)
	assert.Equal(t, "Buy milk", created.Title)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-01-10", created.DueDate.Format("2006-01-02"))
	assert.False(t, created.Resolved)

	w = doJSON(r, http.MethodGet, "/api/v1/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)
}

func TestAPICreateValidation(t *testing.T) {
	r, svc := newAPIRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/todos", gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/todos", gin.H{
		"title":    "Bad date",
		"due_date": "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAPIUpdatePartial(t *testing.T) {
	r, svc := newAPIRouter(t)
	created, err := svc.Create(context.Background(), "original", "desc", nil)
	require.NoError(t, err)
	path := "/api/v1/todos/" + strconv.FormatInt(created.ID, 10)

	// Only due_date in the body: title must survive.
	w := doJSON(r, http.MethodPatch, path, gin.H{"due_date": "2026-06-01"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeTodo(t, w)
	assert.Equal(t, "original", updated.Title)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2026-06-01", updated.DueDate.Format("2006-01-02"))

	// Clear the due date with an explicit empty string.
	w = doJSON(r, http.MethodPatch, path, json.RawMessage(`{"due_date": ""}`))
	require.Equal(t, http.StatusOK, w.Code)
	updated = decodeTodo(t, w)
	assert.Nil(t, updated.DueDate)
}

func TestAPIToggleAndDelete(t *testing.T) {
	r, svc := newAPIRouter(t)
	created, err := svc.Create(context.Background(), "item", "", nil)
	require.NoError(t, err)
	id := strconv.FormatInt(created.ID, 10)

	w := doJSON(r, http.MethodPost, "/api/v1/todos/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeTodo(t, w).Resolved)

	w = doJSON(r, http.MethodDelete, "/api/v1/todos/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/todos/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/todos/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPINotFoundAndBadID(t *testing.T) {
	r, _ := newAPIRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/todos/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/todos/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/v1/todos/999", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPISearchAndOverdue(t *testing.T) {
	r, svc := newAPIRouter(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Buy milk", "", nil)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/v1/todos", gin.H{
		"title":    "overdue thing",
		"due_date": "2020-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/todos/search?q=milk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Buy milk", list.Items[0].Title)

	w = doJSON(r, http.MethodGet, "/api/v1/todos/overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = dto.ListTodosResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "overdue thing", list.Items[0].Title)
}
