package services

import (
	"context"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

// fakeClient implements client.Client for unit tests of the services.
type fakeClient struct {
	LoginRet    *models.LoginResponse
	LoginErr    error
	RegisterRet *models.RegisterResponse
	RegisterErr error
	VerifyRet   *models.VerifyEmailResponse
	VerifyErr   error
	HealthRet   *models.HealthStatus
	HealthErr   error

	PredictRet   *models.PredictionResult
	PredictErr   error
	HistoryRet   []models.RiskAssessment
	DashboardRet []models.PredictionRecord
	DashboardErr error
	StatsRet     *models.DashboardStatsResponse
	ProfileRet   map[string]any
	ChatRet      *models.ChatReply
	ChatErr      error
	ConvRet      *models.Conversation
	ChatHistRet  []models.ChatMessage

	LastLogin        models.LoginRequest
	LastRegister     models.RegisterRequest
	LastVerifyToken  string
	LastPredictEmail string
	LastPredict      models.PatientData
	LastEmail        string
	LastRole         models.Role
	LastChat         models.ChatRequest
	LastUserID       string
	PredictCalls     int

	ProviderDashRet *models.ProviderDashboard
	AdminDashRet    *models.AdminDashboard
	ConsultRet      *models.Consultation
	ConsultErr      error
	ConsultListRet  []models.Consultation
	ConsultStatsRet *models.ConsultationStats
	UserRet         *models.UserResponse
	UserErr         error
	ContactRet      string
	LastConsultReq  models.ConsultationRequest
	LastConsultID   string
	LastConsultUpd  models.ConsultationUpdate
	LastNewUser     models.NewUserRequest
	LastUserUpdate  models.UserUpdate
	LastBlocked     bool
	LastDeletedID   string
	LastContact     models.ContactMessage
	Calls           int
}

func (f *fakeClient) Health(context.Context) (*models.HealthStatus, error) {
	return f.HealthRet, f.HealthErr
}

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) VerifyEmail(_ context.Context, token string) (*models.VerifyEmailResponse, error) {
	f.LastVerifyToken = token
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) UserProfile(_ context.Context, email string) (map[string]any, error) {
	f.LastEmail = email
	return f.ProfileRet, nil
}

func (f *fakeClient) Predict(_ context.Context, email string, data models.PatientData) (*models.PredictionResult, error) {
	f.PredictCalls++
	f.LastPredictEmail = email
	f.LastPredict = data
	return f.PredictRet, f.PredictErr
}

func (f *fakeClient) RiskAssessments(_ context.Context, email string) ([]models.RiskAssessment, error) {
	f.LastEmail = email
	return f.HistoryRet, nil
}

func (f *fakeClient) Dashboard(_ context.Context, role models.Role, email string) ([]models.PredictionRecord, error) {
	f.LastRole = role
	f.LastEmail = email
	return f.DashboardRet, f.DashboardErr
}

func (f *fakeClient) DashboardStats(_ context.Context, email string) (*models.DashboardStatsResponse, error) {
	f.LastEmail = email
	return f.StatsRet, nil
}

func (f *fakeClient) Chat(_ context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	f.LastChat = req
	return f.ChatRet, f.ChatErr
}

func (f *fakeClient) NewConversation(_ context.Context, userID string) (*models.Conversation, error) {
	f.LastUserID = userID
	return f.ConvRet, nil
}

func (f *fakeClient) ChatHistory(_ context.Context, userID string) ([]models.ChatMessage, error) {
	f.LastUserID = userID
	return f.ChatHistRet, nil
}

func (f *fakeClient) ProviderDashboard(_ context.Context, email string) (*models.ProviderDashboard, error) {
	f.Calls++
	f.LastEmail = email
	return f.ProviderDashRet, nil
}

func (f *fakeClient) AdminDashboard(_ context.Context, email string) (*models.AdminDashboard, error) {
	f.Calls++
	f.LastEmail = email
	return f.AdminDashRet, nil
}

func (f *fakeClient) RequestConsultation(_ context.Context, email string, req models.ConsultationRequest) (*models.Consultation, error) {
	f.Calls++
	f.LastEmail = email
	f.LastConsultReq = req
	return f.ConsultRet, f.ConsultErr
}

func (f *fakeClient) Consultations(_ context.Context, email string) ([]models.Consultation, error) {
	f.Calls++
	f.LastEmail = email
	return f.ConsultListRet, f.ConsultErr
}

func (f *fakeClient) Consultation(_ context.Context, email, id string) (*models.Consultation, error) {
	f.Calls++
	f.LastEmail, f.LastConsultID = email, id
	return f.ConsultRet, f.ConsultErr
}

func (f *fakeClient) UpdateConsultation(_ context.Context, email, id string, upd models.ConsultationUpdate) (*models.Consultation, error) {
	f.Calls++
	f.LastEmail, f.LastConsultID, f.LastConsultUpd = email, id, upd
	return f.ConsultRet, f.ConsultErr
}

func (f *fakeClient) ConsultationStats(_ context.Context, email string) (*models.ConsultationStats, error) {
	f.Calls++
	f.LastEmail = email
	return f.ConsultStatsRet, nil
}

func (f *fakeClient) AllConsultationStats(context.Context) (*models.ConsultationStats, error) {
	f.Calls++
	return f.ConsultStatsRet, nil
}

func (f *fakeClient) CreateUser(_ context.Context, req models.NewUserRequest) (*models.UserResponse, error) {
	f.Calls++
	f.LastNewUser = req
	return f.UserRet, f.UserErr
}

func (f *fakeClient) UpdateUser(_ context.Context, id string, upd models.UserUpdate) (*models.UserResponse, error) {
	f.Calls++
	f.LastUserID, f.LastUserUpdate = id, upd
	return f.UserRet, f.UserErr
}

func (f *fakeClient) BlockUser(_ context.Context, id string, blocked bool) (*models.UserResponse, error) {
	f.Calls++
	f.LastUserID, f.LastBlocked = id, blocked
	return f.UserRet, f.UserErr
}

func (f *fakeClient) DeleteUser(_ context.Context, id string) (*models.UserResponse, error) {
	f.Calls++
	f.LastDeletedID = id
	return f.UserRet, f.UserErr
}

func (f *fakeClient) SendContactMessage(_ context.Context, msg models.ContactMessage) (string, error) {
	f.Calls++
	f.LastContact = msg
	return f.ContactRet, nil
}
