package handler

import (
	"context"
	"database/sql"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"weatherops/internal/model"
	"weatherops/internal/service"
)

var validate = validator.New()

type createPlanRequest struct {
	Name         string    `json:"name" validate:"required"`
	SiteName     string    `json:"site_name"`
	Latitude     float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64   `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone     string    `json:"timezone" validate:"required"`
	ProjectStart time.Time `json:"project_start" validate:"required"`
}

type scheduleRequest struct {
	Mode        string     `json:"mode" validate:"omitempty,oneof=forward anchor"`
	AnchorID    string     `json:"anchor_id" validate:"required_if=Mode anchor"`
	AnchorStart *time.Time `json:"anchor_start" validate:"required_if=Mode anchor"`
	HorizonDays int        `json:"horizon_days" validate:"omitempty,gte=1,lte=366"`
}

type exportRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=gantt csv"`
	ZeroHourID string `json:"zero_hour_id"`
}

// RegisterRoutes attaches the HTTP routes to the provided Fiber app.
// Handlers decode and validate payloads, delegate to the service, and
// translate errors; no planning logic lives here.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.PlanService) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(swaggerShell)
	})

	// Readiness: DB connectivity only.
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Liveness probe.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/plans", func(c *fiber.Ctx) error {
		var req createPlanRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		}
		plan, err := svc.Create(c.UserContext(), service.CreatePlanInput{
			Name:         req.Name,
			SiteName:     req.SiteName,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			Timezone:     req.Timezone,
			ProjectStart: req.ProjectStart,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(plan)
	})

	app.Get("/plans", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/plans/:id", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		plan, svcErr := svc.Get(c.UserContext(), id)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(plan)
	})

	app.Delete("/plans/:id", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		if svcErr := svc.Delete(c.UserContext(), id); svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Replace the plan's activity set from the activity and constraint
	// CSV tables (multipart fields: activities, constraints).
	app.Put("/plans/:id/activities", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		actFile, ok := formFile(c, "activities")
		if !ok {
			return nil
		}
		defer actFile.Close()
		conFile, ok := formFile(c, "constraints")
		if !ok {
			return nil
		}
		defer conFile.Close()

		acts, svcErr := svc.ImportActivities(c.UserContext(), id, actFile, conFile)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(fiber.Map{"activities": acts})
	})

	// Replace the plan's tide series (multipart field: tide; optional
	// form value slack_minutes).
	app.Put("/plans/:id/tide", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		tideFile, ok := formFile(c, "tide")
		if !ok {
			return nil
		}
		defer tideFile.Close()

		var slack time.Duration
		if v := c.FormValue("slack_minutes"); v != "" {
			minutes, err := strconv.Atoi(v)
			if err != nil || minutes <= 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SLACK", "slack_minutes must be a positive integer")
			}
			slack = time.Duration(minutes) * time.Minute
		}

		res, svcErr := svc.ImportTide(c.UserContext(), id, tideFile, slack)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(res)
	})

	app.Get("/plans/:id/windows", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		days, err := strconv.Atoi(c.Query("days", "0"))
		if err != nil || days < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DAYS", "invalid days")
		}
		res, svcErr := svc.Windows(c.UserContext(), id, days)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(res)
	})

	app.Post("/plans/:id/schedule", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		var req scheduleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		}
		in := service.ScheduleInput{
			Mode:        req.Mode,
			AnchorID:    req.AnchorID,
			HorizonDays: req.HorizonDays,
		}
		if req.AnchorStart != nil {
			in.AnchorStart = *req.AnchorStart
		}
		acts, svcErr := svc.Schedule(c.UserContext(), id, in)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(fiber.Map{"activities": acts})
	})

	app.Get("/plans/:id/schedule", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		acts, svcErr := svc.GetSchedule(c.UserContext(), id)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(fiber.Map{"activities": acts})
	})

	// Evaluate the computed schedule against a forecast CSV (multipart
	// field: forecast).
	app.Post("/plans/:id/weather-check", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		fcFile, ok := formFile(c, "forecast")
		if !ok {
			return nil
		}
		defer fcFile.Close()

		violations, svcErr := svc.CheckWeather(c.UserContext(), id, fcFile)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		if violations == nil {
			violations = []model.WeatherViolation{}
		}
		return c.JSON(fiber.Map{"violations": violations})
	})

	app.Post("/plans/:id/exports", func(c *fiber.Ctx) error {
		id, ok := planID(c)
		if !ok {
			return nil
		}
		var req exportRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		}
		res, svcErr := svc.Export(c.UserContext(), id, model.ArtifactKind(req.Kind), req.ZeroHourID)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	app.Get("/exports/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, svcErr := svc.GetArtifact(c.UserContext(), id)
		if svcErr != nil {
			return writeServiceError(c, svcErr)
		}
		return c.JSON(res)
	})
}

// planID validates the :id route parameter. When invalid it writes the 400
// response itself and reports false.
func planID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}

// formFile opens a required multipart file field. When missing or unreadable
// it writes the 400 response itself and reports false.
func formFile(c *fiber.Ctx, field string) (multipart.File, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", field+" file is required")
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded "+field+" file")
		return nil, false
	}
	return f, true
}

const swaggerShell = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>WeatherOpsPlanner API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
