package handler

import (
	"context"
	"errors"

	"helperhub/internal/delivery/http/dto"
	"helperhub/internal/delivery/http/middleware"
	"helperhub/internal/domain/matching"
	"helperhub/internal/domain/review"
	"helperhub/internal/domain/user"
	"helperhub/internal/pkg/response"
	"helperhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProviderService interface {
	FindProviders(ctx context.Context, serviceType, category string) ([]matching.Provider, error)
	GetProvider(ctx context.Context, id uuid.UUID) (matching.Provider, error)
}

type ReviewService interface {
	Add(ctx context.Context, id user.Identity, in usecase.ReviewInput) (review.Review, error)
	List(ctx context.Context, jobSeekerID uuid.UUID) ([]review.Review, error)
}

type ProviderHandler struct {
	providers      ProviderService
	reviews        ReviewService
	sessions       SessionService
	reviewsPerCard int
}

func NewProviderHandler(providers ProviderService, reviews ReviewService, sessions SessionService, reviewsPerCard int) *ProviderHandler {
	return &ProviderHandler{providers: providers, reviews: reviews, sessions: sessions, reviewsPerCard: reviewsPerCard}
}

func (h *ProviderHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/providers", h.requireMatching, h.List)
	r.Get("/providers/:id", h.requireMatching, h.Get)
	r.Get("/providers/:id/reviews", h.ListReviews)
	r.Post("/providers/:id/reviews", h.AddReview)
}

// requireMatching keeps job seekers with an incomplete profile out of the
// provider search. Employers always pass.
func (h *ProviderHandler) requireMatching(c fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	s, err := h.sessions.Resolve(c.Context(), id)
	if err != nil && !errors.Is(err, usecase.ErrRoleUnresolved) {
		return mapUsecaseError(err)
	}
	if s.Role != user.RoleJobSeeker {
		return c.Next()
	}

	gate := h.sessions.Gate(c.Context(), s)
	if gate.Gate != usecase.GateMatching {
		return middleware.NewAppError(fiber.StatusForbidden, "Complete your profile to browse providers",
			fiber.Map{"gate": string(gate.Gate)}, usecase.ErrForbidden)
	}
	return c.Next()
}

// List defaults to house services across every category.
func (h *ProviderHandler) List(c fiber.Ctx) error {
	serviceType := c.Query("service_type", "house")
	category := c.Query("category", "all")

	providers, err := h.providers.FindProviders(c.Context(), serviceType, category)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProviderResponses(providers, h.reviewsPerCard))
}

func (h *ProviderHandler) Get(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.providers.GetProvider(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProviderResponse(p, 0))
}

func (h *ProviderHandler) ListReviews(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	rs, err := h.reviews.List(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviewResponses(rs))
}

func (h *ProviderHandler) AddReview(c fiber.Ctx) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddReviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	r, err := h.reviews.Add(c.Context(), ident, usecase.ReviewInput{JobSeekerID: id, Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewReviewResponse(r))
}

func pathUUID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest("Invalid "+name, err)
	}
	return id, nil
}
