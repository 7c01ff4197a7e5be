package services

import (
	"context"
	"errors"
	"sync"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/session"
	"github.com/wombguard/wombguard-cli/internal/validatex"
)

var (
	ErrNotSignedIn = errors.New("not signed in")
	ErrForbidden   = errors.New("not available for your role")
	ErrMissingID   = errors.New("an id is required")
)

// CareService covers what a signed-in user does: risk assessments and
// their history, dashboards, the profile and the chat assistant. Every call
// acts for the current identity of the session store.
type CareService struct {
	client   client.Client
	store    *session.Store
	validate *validatex.Validator

	mu             sync.Mutex
	conversationID string
}

func NewCareService(c client.Client, store *session.Store) *CareService {
	return &CareService{client: c, store: store, validate: validatex.New()}
}

func (s *CareService) current() (*models.Identity, error) {
	id := s.store.Current()
	if id == nil {
		return nil, ErrNotSignedIn
	}
	return id, nil
}

// currentAs is current restricted to identities whose role passes allowed.
func (s *CareService) currentAs(allowed func(models.Role) bool) (*models.Identity, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	if !allowed(id.Role) {
		return nil, ErrForbidden
	}
	return id, nil
}

func (s *CareService) Predict(ctx context.Context, data models.PatientData) (*models.PredictionResult, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(data); err != nil {
		return nil, err
	}
	res, err := s.client.Predict(ctx, id.Email, data)
	if err != nil {
		return nil, client.NewRequestError(err, "risk assessment failed")
	}
	return res, nil
}

func (s *CareService) History(ctx context.Context) ([]models.RiskAssessment, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	res, err := s.client.RiskAssessments(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load assessment history")
	}
	return res, nil
}

// Dashboard lists recent predictions: the patient's own, or everyone's for
// providers and admins.
func (s *CareService) Dashboard(ctx context.Context) ([]models.PredictionRecord, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	email := ""
	role := id.Role
	switch {
	case role.IsPatient():
		role, email = models.RolePatient, id.Email
	case role.IsProvider():
		role = models.RoleProvider
	}
	res, err := s.client.Dashboard(ctx, role, email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load dashboard")
	}
	return res, nil
}

func (s *CareService) Stats(ctx context.Context) (*models.DashboardStatsResponse, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	res, err := s.client.DashboardStats(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load dashboard statistics")
	}
	return res, nil
}

// Profile returns the backend's user record, or nil when it has none.
func (s *CareService) Profile(ctx context.Context) (map[string]any, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	res, err := s.client.UserProfile(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load profile")
	}
	return res, nil
}

// Chat sends message in the current conversation and remembers the
// conversation the backend answered in.
func (s *CareService) Chat(ctx context.Context, message string) (*models.ChatReply, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	req := models.ChatRequest{Message: message, UserID: id.ID, ConversationID: s.Conversation()}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	reply, err := s.client.Chat(ctx, req)
	if err != nil {
		return nil, client.NewRequestError(err, "chat request failed")
	}
	if reply.ConversationID != "" {
		s.setConversation(reply.ConversationID)
	}
	return reply, nil
}

func (s *CareService) NewConversation(ctx context.Context) (*models.Conversation, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	conv, err := s.client.NewConversation(ctx, id.ID)
	if err != nil {
		return nil, client.NewRequestError(err, "could not start a conversation")
	}
	s.setConversation(conv.ConversationID)
	return conv, nil
}

func (s *CareService) ChatHistory(ctx context.Context) ([]models.ChatMessage, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	res, err := s.client.ChatHistory(ctx, id.ID)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load chat history")
	}
	return res, nil
}

// Conversation returns the active conversation id, "" before the first
// message.
func (s *CareService) Conversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

func (s *CareService) setConversation(id string) {
	s.mu.Lock()
	s.conversationID = id
	s.mu.Unlock()
}

// ResetConversation forgets the active conversation, e.g. on logout.
func (s *CareService) ResetConversation() { s.setConversation("") }
