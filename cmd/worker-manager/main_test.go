package main

import (
	"context"
	stdErrors "errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"contract-workers/internal/common/errors"
	"contract-workers/internal/common/logger"
	"contract-workers/internal/models"
	"contract-workers/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const seedCatalogYAML = `templates:
  - id: existing
    name: Existing
    content: {title: "Existing", sections: []}
  - id: fresh
    name: Fresh
    content:
      title: "Fresh for {{who}}"
      sections:
        - heading: Intro
          content: "Hello {{who}}"
    fields:
      - {id: who, label: Who, type: text, required: true}
  - id: invalid
    name: Invalid
    content: {title: "{{ghost}}", sections: []}
  - name: No id
    content: {title: "x", sections: []}
`

func TestSeedCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedCatalogYAML), 0o644))

	store := &testutil.MockTemplateStore{}
	store.On("Get", mock.Anything, "existing").Return(&models.Template{ID: "existing"}, nil)
	store.On("Get", mock.Anything, "fresh").Return(nil, errors.NewTemplateNotFoundError("fresh"))
	store.On("Save", mock.Anything, mock.MatchedBy(func(tmpl *models.Template) bool {
		return tmpl.ID == "fresh" && tmpl.Content.Sections[0].ID != ""
	})).Return(1, nil)

	saved, err := seedCatalog(context.Background(), path, store, store, logger.NewTestLogger(t))

	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Get", mock.Anything, "invalid")
}

func TestSeedCatalog_StopsOnStoreFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedCatalogYAML), 0o644))

	store := &testutil.MockTemplateStore{}
	store.On("Get", mock.Anything, "existing").
		Return(nil, errors.NewDatabaseQueryFailedError("select template", stdErrors.New("down")))

	_, err := seedCatalog(context.Background(), path, store, store, logger.NewTestLogger(t))

	assert.Error(t, err)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHealthMux(t *testing.T) {
	healthy := readinessCheck{name: "postgres", check: func(context.Context) error { return nil }}
	broken := readinessCheck{name: "redis", check: func(context.Context) error { return stdErrors.New("connection refused") }}

	t.Run("health is always ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newHealthMux([]readinessCheck{broken}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready when every check passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newHealthMux([]readinessCheck{healthy}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready names failing dependencies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newHealthMux([]readinessCheck{healthy, broken}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body struct {
			Failing map[string]string `json:"failing"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"redis": "connection refused"}, body.Failing)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newHealthMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
