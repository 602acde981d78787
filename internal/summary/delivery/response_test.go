package delivery

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AjeyHanamanal/meeting-summarizer/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        apperror.Validation("Missing required fields", "Transcript and prompt are required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Missing required fields","message":"Transcript and prompt are required"}`,
		},
		{
			name:       "not found",
			err:        apperror.NotFound("Summary not found", "Summary with the provided ID does not exist"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Summary not found","message":"Summary with the provided ID does not exist"}`,
		},
		{
			name:       "unavailable",
			err:        apperror.Unavailable("AI Service Unavailable", "groq: rate limit or quota exceeded", errors.New("429")),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"AI Service Unavailable","message":"groq: rate limit or quota exceeded"}`,
		},
		{
			name:       "internal hides cause",
			err:        apperror.Internal("Failed to save summary", errors.New("pq: relation does not exist")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error","message":"Failed to save summary"}`,
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error","message":"Something went wrong"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRespondErrorLogsInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/summarize", nil)

	respondError(c, apperror.Internal("Failed to save summary", errors.New("pq: relation does not exist")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Contains(t, logs.String(), `"component":"http"`)
	assert.Contains(t, logs.String(), "pq: relation does not exist")

	logs.Reset()
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/email/send", nil)

	respondError(c, apperror.Unavailable("Email Service Unavailable", "smtp down", errors.New("dial tcp: refused")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, logs.String(), "dependency unavailable")
}
