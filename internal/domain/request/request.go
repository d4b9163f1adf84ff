package request

import (
	"context"
	"errors"
	"strings"
	"time"

	"helperhub/internal/domain/catalog"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

type Decision string

const (
	Accept  Decision = "accept"
	Decline Decision = "decline"
)

var (
	ErrInvalidTransition = errors.New("request is no longer pending")
	ErrUnknownDecision   = errors.New("decision must be accept or decline")
	ErrNotFound          = errors.New("service request not found")
)

func ParseDecision(raw string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(raw))) {
	case Accept:
		return Accept, nil
	case Decline:
		return Decline, nil
	}
	return "", ErrUnknownDecision
}

// Next returns the status a decision moves a request to. Only pending
// requests can be decided.
func Next(from Status, d Decision) (Status, error) {
	if from != StatusPending {
		return from, ErrInvalidTransition
	}
	switch d {
	case Accept:
		return StatusAccepted, nil
	case Decline:
		return StatusDeclined, nil
	}
	return from, ErrUnknownDecision
}

// EmployerSnapshot is the employer's contact details at submission time.
type EmployerSnapshot struct {
	Name  string
	Email string
	Phone string
}

type JobSeekerSnapshot struct {
	Name       string
	Categories []string
}

const (
	fallbackEmployerName  = "Employer"
	fallbackEmployerPhone = "Not provided"
)

// WithFallbacks fills the name and phone when the employer has none on file.
func (s EmployerSnapshot) WithFallbacks() EmployerSnapshot {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	if s.Name == "" {
		s.Name = fallbackEmployerName
	}
	if s.Phone == "" {
		s.Phone = fallbackEmployerPhone
	}
	return s
}

type ServiceRequest struct {
	ID          uuid.UUID
	EmployerID  uuid.UUID
	JobSeekerID uuid.UUID
	ServiceType catalog.ServiceType
	Employer    EmployerSnapshot
	JobSeeker   JobSeekerSnapshot
	Status      Status
	CreatedAt   time.Time
	RespondedAt *time.Time
}

func New(employerID, jobSeekerID uuid.UUID, st catalog.ServiceType, emp EmployerSnapshot, js JobSeekerSnapshot, now time.Time) ServiceRequest {
	cats := make([]string, len(js.Categories))
	copy(cats, js.Categories)
	js.Name = strings.TrimSpace(js.Name)
	js.Categories = cats

	return ServiceRequest{
		ID:          uuid.New(),
		EmployerID:  employerID,
		JobSeekerID: jobSeekerID,
		ServiceType: st,
		Employer:    emp.WithFallbacks(),
		JobSeeker:   js,
		Status:      StatusPending,
		CreatedAt:   now.UTC(),
	}
}

// Decide applies d in place.
func (r *ServiceRequest) Decide(d Decision, at time.Time) error {
	next, err := Next(r.Status, d)
	if err != nil {
		return err
	}
	t := at.UTC()
	r.Status = next
	r.RespondedAt = &t
	return nil
}

type Repository interface {
	Create(ctx context.Context, r ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (ServiceRequest, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]ServiceRequest, error)
	ListByJobSeeker(ctx context.Context, jobSeekerID uuid.UUID) ([]ServiceRequest, error)
	// UpdateStatusIfPending reports false when the stored request had
	// already left the pending state.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, to Status, at time.Time) (bool, error)
}
