package handler

import (
	"context"

	"helperhub/internal/delivery/http/dto"
	"helperhub/internal/domain/request"
	"helperhub/internal/domain/user"
	"helperhub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RequestService interface {
	Submit(ctx context.Context, id user.Identity, providerID uuid.UUID, serviceType string) (request.ServiceRequest, error)
	ListMine(ctx context.Context, id user.Identity) ([]request.ServiceRequest, user.Role, error)
	Respond(ctx context.Context, id user.Identity, requestID uuid.UUID, decision string) (request.ServiceRequest, error)
}

type RequestHandler struct {
	ledger       RequestService
	submitLimits fiber.Handler
}

// NewRequestHandler takes an optional middleware that runs before submit.
func NewRequestHandler(ledger RequestService, submitLimits fiber.Handler) *RequestHandler {
	return &RequestHandler{ledger: ledger, submitLimits: submitLimits}
}

func (h *RequestHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	if h.submitLimits != nil {
		r.Post("/requests", h.submitLimits, h.Submit)
	} else {
		r.Post("/requests", h.Submit)
	}
	r.Get("/requests", h.List)
	r.Post("/requests/:id/respond", h.Respond)
}

func (h *RequestHandler) Submit(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req dto.SubmitRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return badRequest("Invalid providerId", err)
	}

	sr, err := h.ledger.Submit(c.Context(), id, providerID, req.ServiceType)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewServiceRequestResponse(sr))
}

func (h *RequestHandler) List(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	rs, role, err := h.ledger.ListMine(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRequestListResponse(string(role), rs))
}

func (h *RequestHandler) Respond(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RespondRequestRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	sr, err := h.ledger.Respond(c.Context(), id, requestID, req.Decision)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewServiceRequestResponse(sr))
}
