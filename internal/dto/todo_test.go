package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDateAcceptsDateOnly(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_date":"2025-01-10"}`), &req))

	got := req.DueDate.Ptr()
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), *got)
}

func TestDueDateAcceptsRFC3339(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_date":"2025-01-10T15:30:00Z"}`), &req))

	got := req.DueDate.Ptr()
	require.NotNil(t, got)
	assert.Equal(t, 15, got.Hour())
}

func TestDueDateEmptyMeansNone(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_date":""}`), &req))
	assert.Nil(t, req.DueDate.Ptr())

	req = CreateTodoRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &req))
	assert.Nil(t, req.DueDate.Ptr())
}

func TestDueDateRejectsGarbage(t *testing.T) {
	var req CreateTodoRequest
	err := json.Unmarshal([]byte(`{"title":"x","due_date":"not-a-date"}`), &req)
	assert.Error(t, err)
}
