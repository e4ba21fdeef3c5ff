package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmvit/garudar/pkg/api"
)

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, nil, "invalid credentials", http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Unauthorized", resp.Error)
	assert.Equal(t, "invalid credentials", resp.Message)
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, nil, map[string]int{"n": 1}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}
