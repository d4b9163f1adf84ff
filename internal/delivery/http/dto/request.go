package dto

import (
	"time"

	"helperhub/internal/domain/request"

	"github.com/google/uuid"
)

type SubmitRequestRequest struct {
	ProviderID  string `json:"providerId"`
	ServiceType string `json:"serviceType"`
}

type RespondRequestRequest struct {
	Decision string `json:"decision"`
}

type ServiceRequestResponse struct {
	ID                  uuid.UUID  `json:"id"`
	EmployerID          uuid.UUID  `json:"employerId"`
	JobSeekerID         uuid.UUID  `json:"jobSeekerId"`
	ServiceType         string     `json:"serviceType"`
	ServiceTitle        string     `json:"serviceTitle"`
	EmployerName        string     `json:"employerName"`
	EmployerEmail       string     `json:"employerEmail"`
	EmployerPhone       string     `json:"employerPhone"`
	JobSeekerName       string     `json:"jobSeekerName"`
	JobSeekerCategories []string   `json:"jobSeekerCategories"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	RespondedAt         *time.Time `json:"respondedAt"`
}

func NewServiceRequestResponse(r request.ServiceRequest) ServiceRequestResponse {
	cats := r.JobSeeker.Categories
	if cats == nil {
		cats = []string{}
	}
	return ServiceRequestResponse{
		ID:                  r.ID,
		EmployerID:          r.EmployerID,
		JobSeekerID:         r.JobSeekerID,
		ServiceType:         string(r.ServiceType),
		ServiceTitle:        r.ServiceType.Title(),
		EmployerName:        r.Employer.Name,
		EmployerEmail:       r.Employer.Email,
		EmployerPhone:       r.Employer.Phone,
		JobSeekerName:       r.JobSeeker.Name,
		JobSeekerCategories: cats,
		Status:              string(r.Status),
		CreatedAt:           r.CreatedAt,
		RespondedAt:         r.RespondedAt,
	}
}

type RequestListResponse struct {
	Role     string                   `json:"role"`
	Requests []ServiceRequestResponse `json:"requests"`
}

func NewRequestListResponse(role string, rs []request.ServiceRequest) RequestListResponse {
	out := make([]ServiceRequestResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewServiceRequestResponse(r))
	}
	return RequestListResponse{Role: role, Requests: out}
}
