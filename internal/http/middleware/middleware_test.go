package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("generates an id when none is sent", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("replaces an oversized incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEqual(t, strings.Repeat("x", 200), resp.Header.Get(RequestIDHeader))
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	})

	t.Run("preserves an incoming id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestLogger(t *testing.T) {
	t.Run("logs one structured line per request", func(t *testing.T) {
		var buf bytes.Buffer
		log := zerolog.New(&buf)

		app := fiber.New()
		app.Use(RequestID())
		app.Use(Logger(log))

		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusAccepted)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		var logData map[string]any
		err := json.Unmarshal(buf.Bytes(), &logData)
		assert.NoError(t, err)

		assert.NotEmpty(t, logData["request_id"])
		assert.Equal(t, "GET", logData["method"])
		assert.Equal(t, "/test", logData["path"])
		assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
		assert.NotNil(t, logData["latency"])
		assert.Equal(t, "info", logData["level"])
	})

	t.Run("handler errors log at error level", func(t *testing.T) {
		var buf bytes.Buffer
		log := zerolog.New(&buf)

		app := fiber.New()
		app.Use(RequestID())
		app.Use(Logger(log))

		app.Get("/boom", func(c *fiber.Ctx) error {
			return errors.New("boom")
		})

		req := httptest.NewRequest("GET", "/boom", nil)
		app.Test(req)

		var logData map[string]any
		err := json.Unmarshal(buf.Bytes(), &logData)
		assert.NoError(t, err)

		assert.Equal(t, "error", logData["level"])
		assert.Equal(t, float64(fiber.StatusInternalServerError), logData["status"])
	})
}
