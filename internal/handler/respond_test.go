package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
)

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error
}

func TestWriteErrorMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", appErrors.NewValidation("name is required"), http.StatusBadRequest, "validation_error"},
		{"not found", appErrors.NewNotFound("campaign", "c1"), http.StatusNotFound, "not_found"},
		{"conflict", appErrors.NewConflict("user", "email taken"), http.StatusConflict, "conflict"},
		{"auth", appErrors.NewAuth("bad credentials"), http.StatusBadGateway, "auth_error"},
		{"external sync", appErrors.NewExternalSync(500, "platform down"), http.StatusBadGateway, "external_sync_error"},
		{"persistence", appErrors.NewPersistence("insert campaign", errors.New("pq: boom")), http.StatusInternalServerError, "persistence_error"},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantKind, decodeErrorBody(t, rec).Kind)
		})
	}
}

func TestWriteErrorHidesStorageDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, appErrors.NewPersistence("insert campaign", errors.New("pq: relation campaigns does not exist")))

	body := decodeErrorBody(t, rec)
	assert.Equal(t, "storage operation failed", body.Detail)
	assert.NotContains(t, body.Detail, "pq:")
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/campaigns?limit=25&skip=oops", nil)

	assert.Equal(t, 25, queryInt(req, "limit", 100))
	assert.Equal(t, 0, queryInt(req, "skip", 0))
	assert.Equal(t, 100, queryInt(req, "missing", 100))
}
