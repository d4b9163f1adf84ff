package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/request"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
)

type RequestLedger struct {
	requests request.Repository
	profiles ProfileReader
	sessions *SessionResolver
	notifier RequestNotifier
	now      func() time.Time
	logger   *log.Logger
}

func NewRequestLedger(requests request.Repository, profiles ProfileReader, sessions *SessionResolver, notifier RequestNotifier, logger *log.Logger) *RequestLedger {
	return &RequestLedger{
		requests: requests,
		profiles: profiles,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit records a new pending request from the calling employer to the
// provider. Every call creates a new record.
func (l *RequestLedger) Submit(ctx context.Context, id user.Identity, providerID uuid.UUID, serviceType string) (request.ServiceRequest, error) {
	if _, err := l.sessions.Require(ctx, id, user.RoleEmployer); err != nil {
		return request.ServiceRequest{}, err
	}
	st, ok := catalog.ParseServiceType(serviceType)
	if !ok {
		return request.ServiceRequest{}, invalid(fmt.Errorf("%w: %q", errUnknownServiceType, serviceType))
	}

	provider, err := l.profiles.GetByUserID(ctx, providerID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return request.ServiceRequest{}, ErrNotFound
		}
		return request.ServiceRequest{}, unavailable("load provider", err)
	}
	if !provider.IsJobSeeker() {
		return request.ServiceRequest{}, ErrNotFound
	}

	employer, err := l.employerSnapshot(ctx, id)
	if err != nil {
		return request.ServiceRequest{}, err
	}

	sr := request.New(id.ID, providerID, st, employer, request.JobSeekerSnapshot{
		Name:       provider.FullName(),
		Categories: provider.SelectedCategories,
	}, l.now())

	if err := l.requests.Create(ctx, sr); err != nil {
		return request.ServiceRequest{}, unavailable("save request", err)
	}

	l.logf("[Requests] submitted request_id=%s employer_id=%s job_seeker_id=%s service_type=%s", sr.ID, sr.EmployerID, sr.JobSeekerID, sr.ServiceType)
	l.notify(ctx, request.EventCreated, sr)
	return sr, nil
}

// employerSnapshot prefers the employer's profile and falls back to the
// identity fields when there is no profile yet.
func (l *RequestLedger) employerSnapshot(ctx context.Context, id user.Identity) (request.EmployerSnapshot, error) {
	snap := request.EmployerSnapshot{Name: id.DisplayName, Email: id.Email, Phone: id.Phone}

	p, err := l.profiles.GetByUserID(ctx, id.ID)
	switch {
	case err == nil:
		if p.FullName() != "" {
			snap.Name = p.FullName()
		}
		if p.Email != "" {
			snap.Email = p.Email
		}
		if p.Phone != "" {
			snap.Phone = p.Phone
		}
	case !errors.Is(err, profile.ErrNotFound):
		return request.EmployerSnapshot{}, unavailable("load employer profile", err)
	}
	return snap.WithFallbacks(), nil
}

// ListFor returns the requests the user is party to in the given role,
// newest first.
func (l *RequestLedger) ListFor(ctx context.Context, userID uuid.UUID, role user.Role) ([]request.ServiceRequest, error) {
	var (
		out []request.ServiceRequest
		err error
	)
	switch role {
	case user.RoleJobSeeker:
		out, err = l.requests.ListByJobSeeker(ctx, userID)
	case user.RoleEmployer:
		out, err = l.requests.ListByEmployer(ctx, userID)
	default:
		return nil, invalid(fmt.Errorf("unknown role %q", role))
	}
	if err != nil {
		return nil, unavailable("load requests", err)
	}
	return out, nil
}

// ListMine lists requests for the caller's resolved role.
func (l *RequestLedger) ListMine(ctx context.Context, id user.Identity) ([]request.ServiceRequest, user.Role, error) {
	s, err := l.sessions.Resolve(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrRoleUnresolved) {
			return nil, s.Role, err
		}
		l.logf("[Requests] role unresolved user_id=%s default=%s", id.ID, s.Role)
	}
	out, err := l.ListFor(ctx, id.ID, s.Role)
	return out, s.Role, err
}

// Respond applies the job seeker's decision to a pending request.
func (l *RequestLedger) Respond(ctx context.Context, id user.Identity, requestID uuid.UUID, decision string) (request.ServiceRequest, error) {
	d, err := request.ParseDecision(decision)
	if err != nil {
		return request.ServiceRequest{}, invalid(err)
	}

	sr, err := l.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return request.ServiceRequest{}, ErrNotFound
		}
		return request.ServiceRequest{}, unavailable("load request", err)
	}
	if sr.JobSeekerID != id.ID {
		return request.ServiceRequest{}, ErrForbidden
	}

	if err := sr.Decide(d, l.now()); err != nil {
		if errors.Is(err, request.ErrInvalidTransition) {
			return request.ServiceRequest{}, fmt.Errorf("%w: request is %s", ErrInvalidTransition, sr.Status)
		}
		return request.ServiceRequest{}, invalid(err)
	}

	updated, err := l.requests.UpdateStatusIfPending(ctx, sr.ID, sr.Status, *sr.RespondedAt)
	if err != nil {
		return request.ServiceRequest{}, unavailable("save request", err)
	}
	if !updated {
		return request.ServiceRequest{}, fmt.Errorf("%w: request was already answered", ErrInvalidTransition)
	}

	l.logf("[Requests] responded request_id=%s status=%s", sr.ID, sr.Status)
	l.notify(ctx, request.EventResponded, sr)
	return sr, nil
}

func (l *RequestLedger) notify(ctx context.Context, typ string, sr request.ServiceRequest) {
	if l.notifier == nil {
		return
	}
	l.notifier.Notify(ctx, request.NewEvent(typ, sr, l.now()))
}

func (l *RequestLedger) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}
