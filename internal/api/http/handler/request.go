package handler

import (
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// studentCredentials returns the caller's candidate student session tokens,
// bearer token first.
func studentCredentials(c fiber.Ctx) []string {
	return pasetotoken.TokensFromRequest(c, constants.StudentSessionCookie)
}

// clientID converts the decoded "userId" JSON value into a device id.
// Non-string scalars are converted; objects and arrays are ignored.
func clientID(v any) string {
	switch v.(type) {
	case nil, map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(cast.ToString(v))
	}
}

// queryInt parses an integer query parameter, returning def when it is absent,
// malformed or outside [lo, hi].
func queryInt(c fiber.Ctx, key string, def, lo, hi int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return def
	}
	return n
}

func listLimit(c fiber.Ctx) int {
	return queryInt(c, "limit", defaultListLimit, 1, maxListLimit)
}

func pathID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// bindJSON decodes the request body into a generic object. An empty body
// yields an empty map.
func bindJSON(c fiber.Ctx) (map[string]any, error) {
	body := map[string]any{}
	if len(c.Body()) == 0 {
		return body, nil
	}
	if err := c.Bind().JSON(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// bindAndValidate decodes the body into dst and runs its validate tags.
func bindAndValidate(c fiber.Ctx, dst any) error {
	if err := c.Bind().JSON(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func stringField(body map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := body[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func logFailure(c fiber.Ctx, msg string, err error) {
	slog.ErrorContext(c.Context(), msg,
		"request_id", reqctx.RequestIDFromContext(c.Context()),
		"path", c.Path(),
		"error", err,
	)
}
