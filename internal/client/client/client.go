package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

// Client is the WombGuard backend API.
type Client interface {
	Health(ctx context.Context) (*models.HealthStatus, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*models.VerifyEmailResponse, error)
	UserProfile(ctx context.Context, email string) (map[string]any, error)
	Predict(ctx context.Context, email string, data models.PatientData) (*models.PredictionResult, error)
	RiskAssessments(ctx context.Context, email string) ([]models.RiskAssessment, error)
	Dashboard(ctx context.Context, role models.Role, email string) ([]models.PredictionRecord, error)
	DashboardStats(ctx context.Context, email string) (*models.DashboardStatsResponse, error)
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error)
	NewConversation(ctx context.Context, userID string) (*models.Conversation, error)
	ChatHistory(ctx context.Context, userID string) ([]models.ChatMessage, error)

	ProviderDashboard(ctx context.Context, email string) (*models.ProviderDashboard, error)
	AdminDashboard(ctx context.Context, email string) (*models.AdminDashboard, error)

	RequestConsultation(ctx context.Context, email string, req models.ConsultationRequest) (*models.Consultation, error)
	Consultations(ctx context.Context, email string) ([]models.Consultation, error)
	Consultation(ctx context.Context, email, id string) (*models.Consultation, error)
	UpdateConsultation(ctx context.Context, email, id string, upd models.ConsultationUpdate) (*models.Consultation, error)
	ConsultationStats(ctx context.Context, email string) (*models.ConsultationStats, error)
	AllConsultationStats(ctx context.Context) (*models.ConsultationStats, error)

	CreateUser(ctx context.Context, req models.NewUserRequest) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.UserResponse, error)
	BlockUser(ctx context.Context, id string, blocked bool) (*models.UserResponse, error)
	DeleteUser(ctx context.Context, id string) (*models.UserResponse, error)

	SendContactMessage(ctx context.Context, msg models.ContactMessage) (string, error)
}

// Requester is the part of the gateway the API client needs.
type Requester interface {
	Do(ctx context.Context, method, path string, query url.Values, in, out any) error
}

// HTTPClient implements Client over a Requester.
type HTTPClient struct {
	r Requester
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(r Requester) *HTTPClient {
	return &HTTPClient{r: r}
}

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values, out any) error {
	return c.r.Do(ctx, http.MethodGet, path, q, nil, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, q url.Values, in, out any) error {
	return c.r.Do(ctx, http.MethodPost, path, q, in, out)
}

// getData fetches a {status, data} envelope and returns its data.
func getData[T any](ctx context.Context, c *HTTPClient, path string, q url.Values) (*T, error) {
	var env models.Envelope[T]
	if err := c.get(ctx, path, q, &env); err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func byEmail(email string) url.Values { return url.Values{"user_email": {email}} }

func (c *HTTPClient) Health(ctx context.Context) (*models.HealthStatus, error) {
	var out models.HealthStatus
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.post(ctx, "/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var out models.RegisterResponse
	if err := c.post(ctx, "/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*models.VerifyEmailResponse, error) {
	var out models.VerifyEmailResponse
	if err := c.post(ctx, "/verify-email", nil, models.VerifyEmailRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserProfile returns the stored user record, or nil when the backend has
// none for email.
func (c *HTTPClient) UserProfile(ctx context.Context, email string) (map[string]any, error) {
	var out models.UserProfileResponse
	if err := c.get(ctx, "/user-profile", url.Values{"user_email": {email}}, &out); err != nil {
		return nil, err
	}
	if out.Status == "error" && out.User == nil {
		if out.Message == "User not found" {
			return nil, nil
		}
		return nil, fmt.Errorf("user profile: %s", out.Message)
	}
	return out.User, nil
}

func (c *HTTPClient) Predict(ctx context.Context, email string, data models.PatientData) (*models.PredictionResult, error) {
	var out models.PredictionResult
	if err := c.post(ctx, "/predict", url.Values{"user_email": {email}}, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RiskAssessments(ctx context.Context, email string) ([]models.RiskAssessment, error) {
	var out models.ListResponse[models.RiskAssessment]
	if err := c.get(ctx, "/risk-assessments", url.Values{"user_email": {email}}, &out); err != nil {
		return nil, err
	}
	return out.Data, out.Err()
}

func (c *HTTPClient) Dashboard(ctx context.Context, role models.Role, email string) ([]models.PredictionRecord, error) {
	q := url.Values{"role": {string(role)}}
	if email != "" {
		q.Set("user_email", email)
	}
	var out models.ListResponse[models.PredictionRecord]
	if err := c.get(ctx, "/dashboard", q, &out); err != nil {
		return nil, err
	}
	return out.Data, out.Err()
}

func (c *HTTPClient) DashboardStats(ctx context.Context, email string) (*models.DashboardStatsResponse, error) {
	var out models.DashboardStatsResponse
	if err := c.get(ctx, "/dashboard-stats", url.Values{"user_email": {email}}, &out); err != nil {
		return nil, err
	}
	if out.Status == "error" {
		return &out, fmt.Errorf("dashboard stats: %s", out.Message)
	}
	return &out, nil
}

func (c *HTTPClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	var out models.ChatReply
	if err := c.post(ctx, "/chat", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) NewConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	var out models.Conversation
	if err := c.post(ctx, "/chat/new-conversation", nil, models.NewConversationRequest{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ChatHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var out models.ListResponse[models.ChatMessage]
	if err := c.get(ctx, "/chat-history", url.Values{"user_id": {userID}}, &out); err != nil {
		return nil, err
	}
	return out.Data, out.Err()
}

func (c *HTTPClient) ProviderDashboard(ctx context.Context, email string) (*models.ProviderDashboard, error) {
	return getData[models.ProviderDashboard](ctx, c, "/healthcare-dashboard", byEmail(email))
}

func (c *HTTPClient) AdminDashboard(ctx context.Context, email string) (*models.AdminDashboard, error) {
	return getData[models.AdminDashboard](ctx, c, "/admin-dashboard", byEmail(email))
}

func (c *HTTPClient) RequestConsultation(ctx context.Context, email string, req models.ConsultationRequest) (*models.Consultation, error) {
	var out models.Envelope[models.Consultation]
	if err := c.post(ctx, "/consultation-request", byEmail(email), req, &out); err != nil {
		return nil, err
	}
	if err := out.Err(); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) Consultations(ctx context.Context, email string) ([]models.Consultation, error) {
	var out models.ListResponse[models.Consultation]
	if err := c.get(ctx, "/consultation-requests", byEmail(email), &out); err != nil {
		return nil, err
	}
	return out.Data, out.Err()
}

func (c *HTTPClient) Consultation(ctx context.Context, email, id string) (*models.Consultation, error) {
	return getData[models.Consultation](ctx, c, "/consultation-request/"+url.PathEscape(id), byEmail(email))
}

func (c *HTTPClient) UpdateConsultation(ctx context.Context, email, id string, upd models.ConsultationUpdate) (*models.Consultation, error) {
	var out models.Envelope[models.Consultation]
	if err := c.r.Do(ctx, http.MethodPatch, "/consultation-request/"+url.PathEscape(id), byEmail(email), upd, &out); err != nil {
		return nil, err
	}
	if err := out.Err(); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) ConsultationStats(ctx context.Context, email string) (*models.ConsultationStats, error) {
	return getData[models.ConsultationStats](ctx, c, "/consultation-requests/stats/"+url.PathEscape(email), nil)
}

func (c *HTTPClient) AllConsultationStats(ctx context.Context) (*models.ConsultationStats, error) {
	return getData[models.ConsultationStats](ctx, c, "/admin/consultation-stats", nil)
}

func (c *HTTPClient) CreateUser(ctx context.Context, req models.NewUserRequest) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.post(ctx, "/admin/users", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser sends the changed fields as query parameters, which is where
// the backend reads them from.
func (c *HTTPClient) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.UserResponse, error) {
	q := url.Values{}
	if upd.Name != "" {
		q.Set("name", upd.Name)
	}
	if upd.Role != "" {
		q.Set("role", string(upd.Role))
	}
	var out models.UserResponse
	if err := c.r.Do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) BlockUser(ctx context.Context, id string, blocked bool) (*models.UserResponse, error) {
	q := url.Values{"blocked": {strconv.FormatBool(blocked)}}
	var out models.UserResponse
	if err := c.r.Do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id)+"/block", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.r.Do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendContactMessage returns the backend's acknowledgement text.
func (c *HTTPClient) SendContactMessage(ctx context.Context, msg models.ContactMessage) (string, error) {
	var out models.Envelope[map[string]any]
	if err := c.post(ctx, "/contact/send-message", nil, msg, &out); err != nil {
		return "", err
	}
	return out.Message, out.Err()
}
