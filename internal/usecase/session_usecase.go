package usecase

import (
	"context"
	"errors"
	"log"

	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type RoleLookup interface {
	FindRegistration(ctx context.Context, role user.Role, userID uuid.UUID) (user.Registration, error)
}

type ProfileReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
}

type Session struct {
	Identity     user.Identity
	Role         user.Role
	RoleResolved bool
}

type Gate string

const (
	GateMatching          Gate = "matching"
	GateProfileCompletion Gate = "profile_completion"
)

type GateResult struct {
	Gate            Gate
	ProfileComplete bool
}

type SessionResolver struct {
	roles    RoleLookup
	profiles ProfileReader
	logger   *log.Logger
}

func NewSessionResolver(roles RoleLookup, profiles ProfileReader, logger *log.Logger) *SessionResolver {
	return &SessionResolver{roles: roles, profiles: profiles, logger: logger}
}

// Resolve finds the role bucket of id. Employer wins when both exist. When
// the role cannot be determined the session carries the employer default
// and the error says why.
func (r *SessionResolver) Resolve(ctx context.Context, id user.Identity) (Session, error) {
	s := Session{Identity: id, Role: user.RoleEmployer}

	var g errgroup.Group
	var isEmployer, isJobSeeker bool
	var employerErr, jobSeekerErr error

	lookup := func(role user.Role, found *bool, lookupErr *error) func() error {
		return func() error {
			_, err := r.roles.FindRegistration(ctx, role, id.ID)
			switch {
			case err == nil:
				*found = true
			case !errors.Is(err, user.ErrNotFound):
				*lookupErr = err
			}
			return nil
		}
	}
	g.Go(lookup(user.RoleEmployer, &isEmployer, &employerErr))
	g.Go(lookup(user.RoleJobSeeker, &isJobSeeker, &jobSeekerErr))
	_ = g.Wait()

	switch {
	case isEmployer:
		s.RoleResolved = true
	case employerErr != nil:
		return s, unavailable("resolve role", employerErr)
	case isJobSeeker:
		s.Role = user.RoleJobSeeker
		s.RoleResolved = true
	case jobSeekerErr != nil:
		return s, unavailable("resolve role", jobSeekerErr)
	default:
		return s, ErrRoleUnresolved
	}
	return s, nil
}

// Require resolves the session and checks its role. An unresolved role
// continues with the employer default.
func (r *SessionResolver) Require(ctx context.Context, id user.Identity, role user.Role) (Session, error) {
	s, err := r.Resolve(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrRoleUnresolved) {
			return s, err
		}
		r.logf("[Session] role unresolved user_id=%s default=%s", id.ID, s.Role)
	}
	if s.Role != role {
		return s, ErrForbidden
	}
	return s, nil
}

// Gate picks the capability a session may reach. A profile lookup failure
// routes to profile completion.
func (r *SessionResolver) Gate(ctx context.Context, s Session) GateResult {
	p, err := r.profiles.GetByUserID(ctx, s.Identity.ID)
	if err != nil && !errors.Is(err, profile.ErrNotFound) {
		r.logf("[Session] profile lookup failed user_id=%s err=%v", s.Identity.ID, err)
	}
	complete := err == nil && p.IsComplete()

	if s.Role == user.RoleEmployer {
		return GateResult{Gate: GateMatching, ProfileComplete: complete}
	}
	if complete {
		return GateResult{Gate: GateMatching, ProfileComplete: true}
	}
	return GateResult{Gate: GateProfileCompletion}
}

func (r *SessionResolver) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
