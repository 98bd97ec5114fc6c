package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/booking"
	"github.com/Alijeyrad/eunoia_backend/internal/service/history"
	"github.com/Alijeyrad/eunoia_backend/internal/service/mood"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeAssessments struct {
	submitted *assessment.SubmitRequest
	days      int
	err       error
}

func (f *fakeAssessments) Submit(_ context.Context, req assessment.SubmitRequest) (*assessment.ScoreResult, error) {
	f.submitted = &req
	if f.err != nil {
		return nil, f.err
	}
	return &assessment.ScoreResult{TotalScore: 5, Severity: "mild", QuestionnaireType: assessment.PHQ9, AssessmentType: assessment.PHQ9}, nil
}

func (f *fakeAssessments) Recent(context.Context, int) ([]*repo.Assessment, error) {
	return []*repo.Assessment{}, f.err
}

func (f *fakeAssessments) Delete(context.Context, uuid.UUID) error { return f.err }

func (f *fakeAssessments) SeveritySummary(_ context.Context, days int) (*assessment.SeveritySummary, error) {
	f.days = days
	return &assessment.SeveritySummary{BySeverity: map[string]int{}, Days: days}, f.err
}

type fakeMoods struct {
	logged *mood.LogRequest
	err    error
}

func (f *fakeMoods) Log(_ context.Context, req mood.LogRequest) (*repo.MoodLog, error) {
	f.logged = &req
	if f.err != nil {
		return nil, f.err
	}
	return &repo.MoodLog{Mood: 3}, nil
}

func (f *fakeMoods) Recent(context.Context, mood.RecentRequest) ([]*repo.MoodLog, error) {
	return []*repo.MoodLog{}, nil
}

func (f *fakeMoods) RecentAll(context.Context, int) ([]*repo.MoodLog, error) {
	return []*repo.MoodLog{}, nil
}

type fakeBookings struct {
	created   *booking.CreateRequest
	createErr error
	updateErr error
	start     time.Time
}

func (f *fakeBookings) Create(_ context.Context, req booking.CreateRequest) (*booking.CreateResult, error) {
	f.created = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &booking.CreateResult{Success: true, BookingID: uuid.New(), SlotTime: req.Slot}, nil
}

func (f *fakeBookings) Availability(_ context.Context, start, _ time.Time) ([]repo.BookedSlot, error) {
	f.start = start
	return []repo.BookedSlot{}, nil
}

func (f *fakeBookings) Recent(context.Context, int) ([]*repo.Booking, error) {
	return []*repo.Booking{}, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*repo.Booking, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &repo.Booking{ID: id, Status: repo.BookingStatus(status)}, nil
}

func (f *fakeBookings) Delete(context.Context, uuid.UUID) error { return nil }

type fakeHistory struct{ err error }

func (f fakeHistory) Get(context.Context, history.Request) (*history.History, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &history.History{}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func do(t *testing.T, app *fiber.App, method, target, body string, header ...string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// ---------------------------------------------------------------------------
// Assessment
// ---------------------------------------------------------------------------

func TestAssessmentSubmit(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		check      func(t *testing.T, req *assessment.SubmitRequest, body map[string]any)
	}{
		{
			name:       "answers list",
			body:       `{"assessmentType":"GAD7","answers":[1,2,"3"],"userId":"user_a"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, req *assessment.SubmitRequest, body map[string]any) {
				assert.Equal(t, "GAD7", req.Type)
				assert.Len(t, req.Answers.Values, 3)
				assert.Nil(t, req.Answers.Keyed)
				assert.Equal(t, "user_a", req.ClientID)
				assert.EqualValues(t, 5, body["totalScore"])
			},
		},
		{
			name:       "keyed answers at top level",
			body:       `{"questionnaireType":"phq-9","q1":2,"q2":1,"userId":42}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, req *assessment.SubmitRequest, _ map[string]any) {
				assert.Equal(t, "phq-9", req.Type)
				assert.EqualValues(t, 2, req.Answers.Keyed["q1"])
				assert.Equal(t, "42", req.ClientID)
			},
		},
		{
			name:       "object userId ignored",
			body:       `{"answers":{"q1":0},"userId":{"id":"x"}}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, req *assessment.SubmitRequest, _ map[string]any) {
				assert.Empty(t, req.ClientID)
				assert.Contains(t, req.Answers.Keyed, "q1")
			},
		},
		{
			name:       "null answers reads top level",
			body:       `{"answers":null,"q3":1}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, req *assessment.SubmitRequest, _ map[string]any) {
				assert.EqualValues(t, 1, req.Answers.Keyed["q3"])
			},
		},
		{
			name:       "string answers rejected",
			body:       `{"answers":"3,3,3,3,3,3,3,3,3"}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, req *assessment.SubmitRequest, body map[string]any) {
				assert.Nil(t, req)
				assert.Contains(t, body["error"], "answers")
			},
		},
		{
			name:       "numeric answers rejected",
			body:       `{"answers":27}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, req *assessment.SubmitRequest, body map[string]any) {
				assert.Nil(t, req)
				assert.Contains(t, body["error"], "invalid answer value")
			},
		},
		{
			name:       "validation error",
			body:       `{"answers":[9]}`,
			svcErr:     &assessment.ValidationError{Kind: assessment.ErrInvalidAnswerValue, Field: "q1", Reason: "out of range"},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, _ *assessment.SubmitRequest, body map[string]any) {
				assert.Contains(t, body["error"], "q1")
			},
		},
		{
			name:       "store failure is opaque",
			body:       `{"answers":[0]}`,
			svcErr:     errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, _ *assessment.SubmitRequest, body map[string]any) {
				assert.Equal(t, "Failed to submit assessment", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAssessments{err: tt.svcErr}
			app := fiber.New()
			app.Post("/api/assessment", NewAssessmentHandler(svc).Submit)

			status, body := do(t, app, http.MethodPost, "/api/assessment", tt.body)

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus == http.StatusOK || tt.svcErr != nil {
				require.NotNil(t, svc.submitted)
			}
			tt.check(t, svc.submitted, body)
		})
	}
}

func TestAssessmentSubmit_BearerCredential(t *testing.T) {
	svc := &fakeAssessments{}
	app := fiber.New()
	app.Post("/api/assessment", NewAssessmentHandler(svc).Submit)

	status, _ := do(t, app, http.MethodPost, "/api/assessment", `{"answers":[]}`, "Authorization", "Bearer tok-123")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"tok-123"}, svc.submitted.Credentials)
}

func TestAssessmentSubmit_BearerThenCookie(t *testing.T) {
	svc := &fakeAssessments{}
	app := fiber.New()
	app.Post("/api/assessment", NewAssessmentHandler(svc).Submit)

	status, _ := do(t, app, http.MethodPost, "/api/assessment", `{"answers":[]}`,
		"Authorization", "Bearer garbled",
		"Cookie", constants.StudentSessionCookie+"=cookie-tok",
	)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"garbled", "cookie-tok"}, svc.submitted.Credentials)
}

func TestSeveritySummaryDays(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", assessment.DefaultSummaryDays},
		{"?days=7", 7},
		{"?days=0", assessment.DefaultSummaryDays},
		{"?days=1000", assessment.DefaultSummaryDays},
		{"?days=abc", assessment.DefaultSummaryDays},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &fakeAssessments{}
			app := fiber.New()
			app.Get("/s", NewAssessmentHandler(svc).SeveritySummary)

			status, body := do(t, app, http.MethodGet, "/s"+tt.query, "")

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, svc.days)
			assert.EqualValues(t, tt.want, body["days"])
		})
	}
}

// ---------------------------------------------------------------------------
// Mood
// ---------------------------------------------------------------------------

func TestMoodLog(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &fakeMoods{}
		app := fiber.New()
		app.Post("/api/mood", NewMoodHandler(svc, 0).Log)

		status, body := do(t, app, http.MethodPost, "/api/mood", `{"mood":"4","note":"ok","userId":"user_m"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "4", svc.logged.Mood)
		assert.Equal(t, "ok", svc.logged.Note)
		assert.Equal(t, "user_m", svc.logged.ClientID)
	})

	t.Run("invalid mood", func(t *testing.T) {
		app := fiber.New()
		app.Post("/api/mood", NewMoodHandler(&fakeMoods{err: mood.ErrInvalidMood}, 0).Log)

		status, body := do(t, app, http.MethodPost, "/api/mood", `{"mood":9}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, mood.ErrInvalidMood.Error(), body["error"])
	})
}

// ---------------------------------------------------------------------------
// Booking
// ---------------------------------------------------------------------------

func TestBookingCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{name: "ok", body: `{"slot":"2026-11-02T14:00:00Z","studentEmail":"a@uni.edu","userId":"user_b"}`, wantStatus: http.StatusOK},
		{name: "bad email", body: `{"slot":"2026-11-02T14:00:00Z","studentEmail":"nope"}`, wantStatus: http.StatusBadRequest, wantError: "invalid field: studentEmail"},
		{name: "missing slot", body: `{}`, svcErr: assessment.MissingField("slot"), wantStatus: http.StatusBadRequest, wantError: "Missing required fields"},
		{name: "malformed json", body: `{"slot":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBookings{createErr: tt.svcErr}
			app := fiber.New()
			app.Post("/api/booking", NewBookingHandler(svc).Create)

			status, body := do(t, app, http.MethodPost, "/api/booking", tt.body)

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, true, body["success"])
			assert.Equal(t, "user_b", svc.created.ClientID)
		})
	}
}

func TestBookingAvailability(t *testing.T) {
	svc := &fakeBookings{}
	app := fiber.New()
	app.Get("/api/booking", NewBookingHandler(svc).Availability)

	status, _ := do(t, app, http.MethodGet, "/api/booking?start=2026-11-02T00:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, app, http.MethodGet, "/api/booking?start=2026-11-02T00:00:00Z&end=2026-11-09T00:00:00Z", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "bookings")
	assert.True(t, svc.start.Equal(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)))
}

func TestBookingUpdateStatus(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		name       string
		path       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "ok", path: id, body: `{"status":"CONFIRMED"}`, wantStatus: http.StatusOK},
		{name: "bad id", path: "not-a-uuid", body: `{"status":"CONFIRMED"}`, wantStatus: http.StatusBadRequest},
		{name: "missing status", path: id, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "unknown status", path: id, body: `{"status":"DONE"}`, svcErr: booking.ErrInvalidStatus, wantStatus: http.StatusBadRequest},
		{name: "not found", path: id, body: `{"status":"CANCELLED"}`, svcErr: booking.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "terminal", path: id, body: `{"status":"PENDING"}`, svcErr: booking.ErrInvalidTransition, wantStatus: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Patch("/b/:id", NewBookingHandler(&fakeBookings{updateErr: tt.svcErr}).UpdateStatus)

			status, _ := do(t, app, http.MethodPatch, "/b/"+tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

// ---------------------------------------------------------------------------
// History, questionnaires
// ---------------------------------------------------------------------------

func TestHistory_Unattributed(t *testing.T) {
	app := fiber.New()
	app.Get("/api/history", NewHistoryHandler(fakeHistory{err: history.ErrUnattributed}).Get)

	status, body := do(t, app, http.MethodGet, "/api/history", "")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing userId", body["error"])
}

func TestQuestionnaireGet(t *testing.T) {
	app := fiber.New()
	h := NewQuestionnaireHandler()
	app.Get("/q/:type", h.Get)

	status, body := do(t, app, http.MethodGet, "/q/gad-7", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "GAD7", body["type"])
	assert.Len(t, body["questions"], 7)

	status, _ = do(t, app, http.MethodGet, "/q/bdi", "")
	assert.Equal(t, http.StatusNotFound, status)
}
