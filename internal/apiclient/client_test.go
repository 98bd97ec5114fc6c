package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
)

type fixedID string

func (f fixedID) EnsureInitialized() (string, error) { return string(f), nil }

type brokenID struct{}

func (brokenID) EnsureInitialized() (string, error) { return "", errors.New("disk full") }

type captured struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

func newServer(t *testing.T, status int, reply string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query().Get("userId")
		got.auth = r.Header.Get("Authorization")
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(url string, ids IDSource, token string) *Client {
	return New(Config{BaseURL: url + "/", Timeout: 5 * time.Second, Token: token}, ids)
}

func TestLogMood(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{"success":true}`, &got)

	err := newClient(srv.URL, fixedID("user_abc"), "").LogMood(context.Background(), 4, "fine")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/mood", got.path)
	assert.Equal(t, "user_abc", got.body["userId"])
	assert.EqualValues(t, 4, got.body["mood"])
	assert.Equal(t, "fine", got.body["note"])
	assert.Empty(t, got.auth)
}

func TestSubmitAssessment(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK,
		`{"id":"0190f1a2-0000-7000-8000-000000000000","totalScore":12,"severity":"moderate","questionnaireType":"GAD7","assessmentType":"GAD7"}`,
		&got)

	res, err := newClient(srv.URL, fixedID("user_abc"), "tok").
		SubmitAssessment(context.Background(), assessment.GAD7, []int{2, 2, 2, 2, 2, 1, 1})
	require.NoError(t, err)

	assert.Equal(t, 12, res.TotalScore)
	assert.Equal(t, assessment.GAD7, res.QuestionnaireType)
	assert.Equal(t, "GAD7", got.body["assessmentType"])
	assert.Len(t, got.body["answers"], 7)
	assert.Equal(t, "Bearer tok", got.auth)
}

func TestHistorySendsDeviceID(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{"assessments":[],"moods":[{"mood":3}],"bookings":[]}`, &got)

	h, err := newClient(srv.URL, fixedID("user_q"), "").History(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "user_q", got.query)
	require.Len(t, h.Moods, 1)
	assert.Equal(t, 3, h.Moods[0].Mood)
}

func TestAPIError(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusBadRequest, `{"error":"Missing required fields"}`, &got)

	_, err := newClient(srv.URL, fixedID("user_q"), "").Book(context.Background(), BookRequest{Slot: time.Now()})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Missing required fields", apiErr.Message)
}

func TestDeviceIDFailureStopsRequest(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{}`, &got)

	err := newClient(srv.URL, brokenID{}, "").LogMood(context.Background(), 3, "")
	require.Error(t, err)
	assert.Empty(t, got.method, "no request expected")
}
