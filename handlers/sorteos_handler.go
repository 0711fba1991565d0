package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Federico-Chandia/Scrapper-quini6/services"
	"github.com/Federico-Chandia/Scrapper-quini6/shared"
)

// SorteosHandler serves the draw results HTTP surface
type SorteosHandler struct {
	draws  *services.DrawService
	ingest *services.IngestionService
	db     *sql.DB
}

// NewSorteosHandler creates a handler wired to the draw and ingestion services
func NewSorteosHandler(draws *services.DrawService, ingest *services.IngestionService, db *sql.DB) *SorteosHandler {
	return &SorteosHandler{
		draws:  draws,
		ingest: ingest,
		db:     db,
	}
}

// GetSorteos handles GET /sorteos - returns the most recent day's draw results
func (h *SorteosHandler) GetSorteos(c *fiber.Ctx) error {
	day, err := h.draws.GetCurrent(c.Context())
	if err != nil {
		return h.respondError(c, err, "Failed to get current draw results")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      day.Sorteos,
		"fecha":     day.Fecha,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetTodosLosSorteos handles GET /todoslossorteos - returns the last ten draw days
func (h *SorteosHandler) GetTodosLosSorteos(c *fiber.Ctx) error {
	days, err := h.draws.GetRecentDays(c.Context(), services.RecentDaysWindow)
	if err != nil {
		return h.respondError(c, err, "Failed to get recent draw days")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      days,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetSorteoByNumero handles GET /sorteo/:nro - returns one draw day by
// recency rank, 1 being the most recent
func (h *SorteosHandler) GetSorteoByNumero(c *fiber.Ctx) error {
	nro, err := c.ParamsInt("nro")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "El número de sorteo debe ser un entero",
		})
	}

	day, err := h.draws.GetDayByRecencyRank(c.Context(), nro)
	if err != nil {
		return h.respondError(c, err, "Failed to get draw day by rank")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      day,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CargarHistoricos handles GET /cargarhistoricos - runs the historical
// backfill synchronously and reports how many rows were loaded
func (h *SorteosHandler) CargarHistoricos(c *fiber.Ctx) error {
	inserted, err := h.ingest.BackfillHistorical(c.Context())
	if err != nil {
		return h.respondError(c, err, "Historical backfill failed")
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Carga de históricos completada",
		"rows_inserted": inserted,
		"timestamp":     time.Now().Format(time.RFC3339),
	})
}

// Index handles GET / - lists the available endpoints
func (h *SorteosHandler) Index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "API de resultados Quini 6",
		"endpoints": fiber.Map{
			"sorteos":          "/sorteos",
			"todosLosSorteos":  "/todoslossorteos",
			"sorteoPorNumero":  "/sorteo/:nro",
			"cargarHistoricos": "/cargarhistoricos",
			"health":           "/health",
		},
	})
}

// HealthCheck handles GET /health - verifies the service and its store
func (h *SorteosHandler) HealthCheck(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.Context()); err != nil {
		logrus.WithError(err).Error("Health check database ping failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"database":  "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// respondError logs the failure and writes the contract's error shape with
// the status code derived from the error category. Upstream fetch and store
// detail never reaches the client, only the condition's own message.
func (h *SorteosHandler) respondError(c *fiber.Ctx, err error, logMessage string) error {
	status := shared.HTTPStatusFor(err)
	if status >= fiber.StatusInternalServerError {
		logrus.WithError(err).Error(logMessage)
	} else {
		logrus.WithError(err).Warn(logMessage)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   clientMessage(err),
	})
}

// clientMessage picks what the client may see: the descriptive message for
// conditions the caller can act on, a generic one for internal failures.
func clientMessage(err error) string {
	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) {
		switch serviceErr.Category {
		case shared.ErrorCategoryValidation, shared.ErrorCategoryNotFound, shared.ErrorCategoryResource:
			return serviceErr.Message
		}
	}
	return "error interno al procesar la solicitud"
}
