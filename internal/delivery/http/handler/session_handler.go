package handler

import (
	"context"
	"errors"
	"log"

	"helperhub/internal/delivery/http/dto"
	"helperhub/internal/domain/user"
	"helperhub/internal/pkg/response"
	"helperhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SessionService interface {
	Resolve(ctx context.Context, id user.Identity) (usecase.Session, error)
	Gate(ctx context.Context, s usecase.Session) usecase.GateResult
}

type SessionHandler struct {
	sessions SessionService
	logger   *log.Logger
}

func NewSessionHandler(sessions SessionService, logger *log.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/session", h.Get)
}

// Get reports the caller's role and which capability the client should
// open. An unresolved role is not an error here; the default is returned
// with roleResolved=false.
func (h *SessionHandler) Get(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	s, err := h.sessions.Resolve(c.Context(), id)
	if err != nil {
		if !errors.Is(err, usecase.ErrRoleUnresolved) {
			return mapUsecaseError(err)
		}
		if h.logger != nil {
			h.logger.Printf("[Session] role unresolved user_id=%s default=%s", id.ID, s.Role)
		}
	}

	gate := h.sessions.Gate(c.Context(), s)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SessionResponse{
		Identity:        dto.NewIdentityResponse(id),
		Role:            string(s.Role),
		RoleResolved:    s.RoleResolved,
		Gate:            string(gate.Gate),
		ProfileComplete: gate.ProfileComplete,
	})
}
