package server

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"portsight/database"
	"portsight/models"
	"portsight/pipeline"
)

// Handler defines an HTTP handler.
type Handler struct {
	pl *pipeline.Pipeline
	db *database.DB
}

// ScanHandler defines the handler for the /scan endpoint.
func (h *Handler) ScanHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data ScanRequestAPI

	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	if !data.Validate() {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	target, _ := models.ParseTarget(data.Target)
	spec := models.PortSpec{Start: data.StartPort, End: data.EndPort}

	result, err := h.pl.Run(context.Background(), target, spec)
	if err != nil {
		br.Message = "Unexpected internal error occurred."
		return ctx.Status(fiber.StatusInternalServerError).JSON(br)
	}

	return ctx.Status(fiber.StatusOK).JSON(ScanResponse{
		Report:   result.Report,
		Insights: result.Session.Insights,
	})
}

// HistoryHandler defines the handler for the /scans endpoint.
func (h *Handler) HistoryHandler(ctx fiber.Ctx) error {
	records, err := h.db.History(20)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(response{
			Error:   true,
			Message: "Unexpected internal error occurred.",
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(records)
}

// SettingsHandler defines the handler for POST /settings.
func (h *Handler) SettingsHandler(ctx fiber.Ctx) error {
	br := response{
		Error:   true,
		Message: "Invalid data provided.",
	}

	var data SettingsAPI

	if err := ctx.Bind().Body(&data); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	spec := models.PortSpec{Start: data.StartPort, End: data.EndPort}
	if err := spec.Validate(); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	if err := h.db.UpdateSettings(database.ScannerConfig{
		StartPort: data.StartPort,
		EndPort:   data.EndPort,
		TimeoutMS: data.TimeoutMS,
		Workers:   data.Workers,
	}); err != nil {
		br.Message = "An error occurred during applying settings."
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(br)
	}

	return ctx.SendStatus(fiber.StatusOK)
}

// FetchSettingsHandler defines the handler for GET /settings.
func (h *Handler) FetchSettingsHandler(ctx fiber.Ctx) error {
	cfg := h.db.FetchSettings()
	return ctx.Status(fiber.StatusOK).JSON(SettingsAPI{
		StartPort: cfg.StartPort,
		EndPort:   cfg.EndPort,
		TimeoutMS: cfg.TimeoutMS,
		Workers:   cfg.Workers,
	})
}
