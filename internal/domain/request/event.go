package request

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated   = "request.created"
	EventResponded = "request.responded"
)

// Event is the envelope pushed to sockets and the event log.
type Event struct {
	Type        string    `json:"type"`
	Version     int       `json:"v"`
	At          time.Time `json:"at"`
	RequestID   uuid.UUID `json:"request_id"`
	EmployerID  uuid.UUID `json:"employer_id"`
	JobSeekerID uuid.UUID `json:"job_seeker_id"`
	ServiceType string    `json:"service_type"`
	Status      string    `json:"status"`
}

func NewEvent(typ string, r ServiceRequest, at time.Time) Event {
	return Event{
		Type:        typ,
		Version:     1,
		At:          at.UTC(),
		RequestID:   r.ID,
		EmployerID:  r.EmployerID,
		JobSeekerID: r.JobSeekerID,
		ServiceType: string(r.ServiceType),
		Status:      string(r.Status),
	}
}

// Recipient is the user the event concerns most: the job seeker for new
// requests and the employer for responses.
func (e Event) Recipient() uuid.UUID {
	if e.Type == EventResponded {
		return e.EmployerID
	}
	return e.JobSeekerID
}
