package http

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"berth/internal/core/domain"
	"berth/internal/core/reconciler"
)

// ReconcileService is what the handlers need from the core. The
// concrete implementation is *reconciler.Reconciler.
type ReconcileService interface {
	Reconcile(ctx context.Context, desired domain.DesiredState) (domain.RunningContainer, error)
	Status(ctx context.Context, desired domain.DesiredState) (domain.ObservedState, error)
	Logs(ctx context.Context, desired domain.DesiredState) (io.ReadCloser, error)
}

// Handler exposes one configured container spec over HTTP.
type Handler struct {
	service ReconcileService
	desired domain.DesiredState
}

func NewHandler(service ReconcileService, desired domain.DesiredState) *Handler {
	return &Handler{service: service, desired: desired}
}

// Reconcile runs one reconcile pass. An empty body uses the configured
// spec; a JSON body replaces it for this request.
func (h *Handler) Reconcile(c *fiber.Ctx) error {
	desired := h.desired
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&desired); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	running, err := h.service.Reconcile(c.Context(), desired)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(running)
}

// Status reports the observed state of the configured container.
func (h *Handler) Status(c *fiber.Ctx) error {
	observed, err := h.service.Status(c.Context(), h.desired)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(observed)
}

// Logs streams the configured container's logs as plain text.
func (h *Handler) Logs(c *fiber.Ctx) error {
	logs, err := h.service.Logs(c.Context(), h.desired)
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

// errorResponse maps failure kinds to HTTP statuses: spec problems are
// the client's fault, a missing container is 404, everything else is an
// upstream (daemon) failure.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	switch {
	case errors.Is(err, reconciler.ErrInvalidSpec):
		status = fiber.StatusBadRequest
	case errors.Is(err, reconciler.ErrNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  reconciler.Kind(err),
	})
}
