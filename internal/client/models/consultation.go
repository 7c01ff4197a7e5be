package models

import "fmt"

// Consultation statuses. A request starts pending; only the addressed
// provider moves it on.
const (
	ConsultationPending  = "pending"
	ConsultationAccepted = "accepted"
	ConsultationDeclined = "declined"
	ConsultationClosed   = "closed"
)

// ConsultationRequest is the body of POST /consultation-request.
type ConsultationRequest struct {
	ProviderEmail string `json:"healthcare_provider_email" validate:"required,email"`
	Subject       string `json:"subject" validate:"required,max=200"`
	Message       string `json:"message" validate:"required"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// ConsultationUpdate is the body of PATCH /consultation-request/{id}.
type ConsultationUpdate struct {
	Status          string `json:"status" validate:"required,oneof=accepted declined closed"`
	ResponseMessage string `json:"response_message,omitempty"`
}

// Consultation is a stored consultation request between a patient and a
// provider.
type Consultation struct {
	ID              string `json:"id"`
	PatientID       string `json:"pregnant_woman_id"`
	PatientEmail    string `json:"pregnant_woman_email"`
	PatientName     string `json:"pregnant_woman_name"`
	ProviderID      string `json:"healthcare_provider_id"`
	ProviderEmail   string `json:"healthcare_provider_email"`
	ProviderName    string `json:"healthcare_provider_name"`
	Subject         string `json:"subject"`
	Message         string `json:"message"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	ResponseMessage string `json:"response_message,omitempty"`
	CreatedAt       string `json:"created_at"`
	RespondedAt     string `json:"responded_at,omitempty"`
	ClosedAt        string `json:"closed_at,omitempty"`
}

// ConsultationStats counts consultations by status.
type ConsultationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Closed   int `json:"closed"`
}

// ContactMessage is the body of POST /contact/send-message.
type ContactMessage struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
	UserType string `json:"userType"`
}

// Envelope is the {status, message, data} wrapper of single-object
// responses. Like ListResponse it may report an error with HTTP 200.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Err converts an in-band error status into an error.
func (e *Envelope[T]) Err() error {
	if e.Status != "error" {
		return nil
	}
	if e.Message == "" {
		return fmt.Errorf("backend reported an error")
	}
	return fmt.Errorf("backend reported an error: %s", e.Message)
}
