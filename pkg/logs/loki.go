package logs

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Alijeyrad/eunoia_backend/config"
)

// lokiWriter implements io.Writer that pushes JSON log lines to Loki's push API.
// Each Write() call is one log line.
type lokiWriter struct {
	endpoint string
	username string
	password string
	client   *http.Client
	labels   map[string]string
	now      func() time.Time
}

type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

func newLokiHandler(cfg *config.Config, level slog.Level) slog.Handler {
	loki := cfg.Logging.Output.Loki
	lw := &lokiWriter{
		endpoint: strings.TrimRight(loki.Endpoint, "/") + "/loki/api/v1/push",
		username: loki.Username,
		password: loki.Password,
		client:   &http.Client{Timeout: 3 * time.Second},
		labels:   map[string]string{"service": serviceName(cfg), "env": cfg.Server.Environment},
		now:      time.Now,
	}
	return slog.NewJSONHandler(lw, &slog.HandlerOptions{Level: level})
}

func (lw *lokiWriter) payload(p []byte) ([]byte, error) {
	line := strings.TrimRight(string(p), "\n")
	return json.Marshal(lokiPush{Streams: []lokiStream{{
		Stream: lw.labels,
		Values: [][2]string{{strconv.FormatInt(lw.now().UnixNano(), 10), line}},
	}}})
}

func (lw *lokiWriter) Write(p []byte) (int, error) {
	body, err := lw.payload(p)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, lw.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if lw.username != "" {
		req.SetBasicAuth(lw.username, lw.password)
	}

	resp, err := lw.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return len(p), nil
}
