package domain

import (
	"fmt"
	"time"
)

// ServiceType is the category of help a farmer asks for.
type ServiceType string

const (
	ServiceAgronomy   ServiceType = "agronomy"
	ServiceVeterinary ServiceType = "veterinary"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAssigned   RequestStatus = "assigned"
	StatusNoMatch    RequestStatus = "no_match"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// Terminal returns true for statuses that permit no further transition.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// validTransitions maps each status to the statuses it may move to.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAssigned, StatusNoMatch},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusNoMatch:    {},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ServiceRequest is a farmer's ask for expert help.
type ServiceRequest struct {
	ID            string        `json:"id"`
	FarmerPhone   string        `json:"farmer_phone"`
	GraduatePhone string        `json:"graduate_phone,omitempty"`
	ServiceType   ServiceType   `json:"service_type"`
	Description   string        `json:"description"`
	Status        RequestStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	Feedback      string        `json:"feedback,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	AssignedAt    *time.Time    `json:"assigned_at,omitempty"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// Validate checks the request's structural invariants: a graduate reference
// is present exactly when the status implies one.
func (r *ServiceRequest) Validate() error {
	needsGraduate := r.Status == StatusAssigned || r.Status == StatusInProgress || r.Status == StatusCompleted
	if needsGraduate && r.GraduatePhone == "" {
		return fmt.Errorf("request %s: status %q requires an assigned graduate", r.ID, r.Status)
	}
	if !needsGraduate && r.Status != StatusCancelled && r.GraduatePhone != "" {
		return fmt.Errorf("request %s: status %q must not carry a graduate", r.ID, r.Status)
	}
	return nil
}
