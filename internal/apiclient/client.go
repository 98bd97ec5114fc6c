// Package apiclient talks to a running Eunoia server on behalf of the
// companion CLI. Every submission carries the device id as userId, and the
// student session token when one is configured.
package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3/client"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/booking"
	"github.com/Alijeyrad/eunoia_backend/internal/service/history"
)

// IDSource supplies the anonymous device id. *deviceid.Provider satisfies it.
type IDSource interface {
	EnsureInitialized() (string, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Token is an optional student session token sent as a bearer token.
	Token string
}

func FromCentralConfig(c config.ClientConfig) Config {
	cfg := Config{
		BaseURL: c.BaseURL,
		Timeout: time.Duration(c.TimeoutSeconds) * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return cfg
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	http  *client.Client
	ids   IDSource
	token string
}

func New(cfg Config, ids IDSource) *Client {
	cc := client.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetJSONMarshal(json.Marshal).
		SetJSONUnmarshal(json.Unmarshal)
	return &Client{http: cc, ids: ids, token: cfg.Token}
}

// ---------------------------------------------------------------------------
// Screening
// ---------------------------------------------------------------------------

func (c *Client) LogMood(ctx context.Context, mood int, note string) error {
	body := map[string]any{"mood": mood}
	if note != "" {
		body["note"] = note
	}
	return c.post(ctx, "/api/mood", body, nil)
}

func (c *Client) RecentMoods(ctx context.Context) ([]*repo.MoodLog, error) {
	var out struct {
		Logs []*repo.MoodLog `json:"logs"`
	}
	if err := c.get(ctx, "/api/mood/recent", &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

func (c *Client) SubmitAssessment(ctx context.Context, qtype assessment.QuestionnaireType, answers []int) (*assessment.ScoreResult, error) {
	var out assessment.ScoreResult
	body := map[string]any{"assessmentType": qtype, "answers": answers}
	if err := c.post(ctx, "/api/assessment", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Questionnaire(ctx context.Context, qtype assessment.QuestionnaireType) (*assessment.Definition, error) {
	var out assessment.Definition
	if err := c.get(ctx, "/api/questionnaires/"+url.PathEscape(string(qtype)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type BookRequest struct {
	Slot         time.Time
	StudentName  string
	StudentEmail string
	Reason       string
	CounselorID  string
}

func (c *Client) Book(ctx context.Context, req BookRequest) (*booking.CreateResult, error) {
	body := map[string]any{"slot": req.Slot.UTC().Format(time.RFC3339)}
	for k, v := range map[string]string{
		"studentName":  req.StudentName,
		"studentEmail": req.StudentEmail,
		"reason":       req.Reason,
		"counselorId":  req.CounselorID,
	} {
		if v != "" {
			body[k] = v
		}
	}

	var out booking.CreateResult
	if err := c.post(ctx, "/api/booking", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context) (*history.History, error) {
	var out history.History
	if err := c.get(ctx, "/api/history", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	id, err := c.ids.EnsureInitialized()
	if err != nil {
		return err
	}
	body["userId"] = id

	resp, err := c.http.Post(path, client.Config{
		Ctx:    ctx,
		Header: c.headers(),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Close()
	return decode(resp, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	id, err := c.ids.EnsureInitialized()
	if err != nil {
		return err
	}

	resp, err := c.http.Get(path, client.Config{
		Ctx:    ctx,
		Header: c.headers(),
		Param:  map[string]string{"userId": id},
	})
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Close()
	return decode(resp, out)
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

func decode(resp *client.Response, out any) error {
	status := resp.StatusCode()
	if status < 200 || status > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(resp.Body(), &e)
		return &APIError{Status: status, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
