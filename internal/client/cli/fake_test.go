package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/wombguard/wombguard-cli/internal/client/config"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/repositories/metadata"
	"github.com/wombguard/wombguard-cli/internal/client/services"
	"github.com/wombguard/wombguard-cli/internal/client/session"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

type fakeAuth struct {
	mu sync.Mutex

	loginEmail, loginPass string
	loginID               *models.Identity
	loginErr              error

	regReq  models.RegisterRequest
	regResp *models.RegisterResponse
	regErr  error

	verifyToken string
	verifyErr   error

	adoptToken string
	adoptID    *models.Identity
	adoptErr   error

	logoutCalled bool
	logoutErr    error

	status *services.Status

	pingResp  *models.HealthStatus
	pingErr   error
	pingCalls int

	store *session.Store
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.Identity, error) {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.store != nil {
		f.store.Set(f.loginID)
	}
	return f.loginID, nil
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	f.regReq = req
	return f.regResp, f.regErr
}

func (f *fakeAuth) VerifyEmail(_ context.Context, token string) (*models.VerifyEmailResponse, error) {
	f.verifyToken = token
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &models.VerifyEmailResponse{Status: "success", Email: "n@x.com"}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.store != nil {
		f.store.Clear()
	}
	return f.logoutErr
}

func (f *fakeAuth) AdoptSession(_ context.Context, token string) (*models.Identity, error) {
	f.adoptToken = token
	return f.adoptID, f.adoptErr
}

func (f *fakeAuth) Status(context.Context) *services.Status {
	if f.status == nil {
		return &services.Status{}
	}
	return f.status
}

func (f *fakeAuth) Ping(context.Context) (*models.HealthStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingResp, f.pingErr
}

type fakeCare struct {
	mu sync.Mutex

	predictData models.PatientData
	predictRes  *models.PredictionResult
	predictErr  error

	history   []models.RiskAssessment
	records   []models.PredictionRecord
	dashCalls int
	dashErr   error
	stats     *models.DashboardStatsResponse
	profile   map[string]any

	chatMsg   string
	chatReply *models.ChatReply
	conv      *models.Conversation
	messages  []models.ChatMessage
	resets    int

	providerDash *models.ProviderDashboard
	consultReq   models.ConsultationRequest
	consult      *models.Consultation
	consultErr   error
	consultList  []models.Consultation
	consultID    string
	consultUpd   models.ConsultationUpdate
	consultStats *models.ConsultationStats
	contactMsg   models.ContactMessage
	contactAck   string
}

func (f *fakeCare) Predict(_ context.Context, d models.PatientData) (*models.PredictionResult, error) {
	f.predictData = d
	return f.predictRes, f.predictErr
}

func (f *fakeCare) History(context.Context) ([]models.RiskAssessment, error) { return f.history, nil }

func (f *fakeCare) Dashboard(context.Context) ([]models.PredictionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashCalls++
	return f.records, f.dashErr
}

func (f *fakeCare) Stats(context.Context) (*models.DashboardStatsResponse, error) {
	return f.stats, nil
}

func (f *fakeCare) Profile(context.Context) (map[string]any, error) { return f.profile, nil }

func (f *fakeCare) Chat(_ context.Context, msg string) (*models.ChatReply, error) {
	f.chatMsg = msg
	return f.chatReply, nil
}

func (f *fakeCare) NewConversation(context.Context) (*models.Conversation, error) {
	return f.conv, nil
}

func (f *fakeCare) ChatHistory(context.Context) ([]models.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeCare) ResetConversation() { f.resets++ }

func (f *fakeCare) ProviderDashboard(context.Context) (*models.ProviderDashboard, error) {
	return f.providerDash, nil
}

func (f *fakeCare) RequestConsultation(_ context.Context, req models.ConsultationRequest) (*models.Consultation, error) {
	f.consultReq = req
	return f.consult, f.consultErr
}

func (f *fakeCare) Consultations(context.Context) ([]models.Consultation, error) {
	return f.consultList, f.consultErr
}

func (f *fakeCare) Consultation(_ context.Context, id string) (*models.Consultation, error) {
	f.consultID = id
	return f.consult, f.consultErr
}

func (f *fakeCare) RespondConsultation(_ context.Context, id string, upd models.ConsultationUpdate) (*models.Consultation, error) {
	f.consultID, f.consultUpd = id, upd
	return f.consult, f.consultErr
}

func (f *fakeCare) ConsultationStats(context.Context) (*models.ConsultationStats, error) {
	return f.consultStats, nil
}

func (f *fakeCare) Contact(_ context.Context, msg models.ContactMessage) (string, error) {
	f.contactMsg = msg
	return f.contactAck, nil
}

type fakeAdmin struct {
	dash    *models.AdminDashboard
	stats   *models.ConsultationStats
	newUser models.NewUserRequest
	userID  string
	update  models.UserUpdate
	blocked *bool
	deleted string
	resp    *models.UserResponse
	err     error
}

func (f *fakeAdmin) Dashboard(context.Context) (*models.AdminDashboard, error) { return f.dash, f.err }

func (f *fakeAdmin) ConsultationStats(context.Context) (*models.ConsultationStats, error) {
	return f.stats, f.err
}

func (f *fakeAdmin) CreateUser(_ context.Context, req models.NewUserRequest) (*models.UserResponse, error) {
	f.newUser = req
	return f.response(), f.err
}

func (f *fakeAdmin) UpdateUser(_ context.Context, id string, upd models.UserUpdate) (*models.UserResponse, error) {
	f.userID, f.update = id, upd
	return f.response(), f.err
}

func (f *fakeAdmin) SetBlocked(_ context.Context, id string, blocked bool) (*models.UserResponse, error) {
	f.userID, f.blocked = id, &blocked
	return f.response(), f.err
}

func (f *fakeAdmin) DeleteUser(_ context.Context, id string) (*models.UserResponse, error) {
	f.deleted = id
	return f.response(), f.err
}

func (f *fakeAdmin) response() *models.UserResponse {
	if f.resp == nil {
		return &models.UserResponse{Status: "success"}
	}
	return f.resp
}

// newTestApp builds an App around fakes. Everything printed lands in out.
func newTestApp(auth *fakeAuth, care *fakeCare, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a := &App{
		config:  cfg,
		log:     logging.Discard(),
		auth:    auth,
		care:    care,
		admin:   &fakeAdmin{},
		local:   metadata.NewMemoryRepository(),
		store:   session.NewStore(),
		printer: NewPrinter(out, out, false),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}
	auth.store = a.store
	return a, out
}
