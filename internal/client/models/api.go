package models

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is what /login returns. User is kept raw so a missing or
// empty user can be told apart from a decoded one.
type LoginResponse struct {
	Status      string         `json:"status"`
	AccessToken string         `json:"access_token,omitempty"`
	TokenType   string         `json:"token_type,omitempty"`
	User        map[string]any `json:"user"`
}

// RegisterRequest is the body of POST /register. Only patients may
// self-register; the backend rejects every other role.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=pregnant_woman"`
}

// RegisterResponse is the acknowledgement of a pending account.
type RegisterResponse struct {
	Status            string         `json:"status"`
	Message           string         `json:"message"`
	VerificationLink  string         `json:"verification_link,omitempty"`
	VerificationToken string         `json:"verification_token,omitempty"`
	User              map[string]any `json:"user"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type VerifyEmailResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

// Healthy reports whether the backend declared itself healthy.
func (h *HealthStatus) Healthy() bool { return h != nil && h.Status == "healthy" }

// UserProfileResponse is the body of GET /user-profile.
type UserProfileResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	User    map[string]any `json:"user"`
}
