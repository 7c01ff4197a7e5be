package services

import (
	"context"
	"strings"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/session"
	"github.com/wombguard/wombguard-cli/internal/logging"
	"github.com/wombguard/wombguard-cli/internal/validatex"
)

// AdminService is user management and the system-wide overview. Every call
// requires the current identity to be an admin; the backend checks again.
type AdminService struct {
	client   client.Client
	store    *session.Store
	validate *validatex.Validator
	log      logging.Logger
}

func NewAdminService(c client.Client, store *session.Store, log logging.Logger) *AdminService {
	return &AdminService{client: c, store: store, validate: validatex.New(), log: log.With("component", "admin")}
}

func (s *AdminService) admin() (*models.Identity, error) {
	id := s.store.Current()
	if id == nil {
		return nil, ErrNotSignedIn
	}
	if id.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return id, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.AdminDashboard, error) {
	id, err := s.admin()
	if err != nil {
		return nil, err
	}
	res, err := s.client.AdminDashboard(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load admin dashboard")
	}
	return res, nil
}

// ConsultationStats counts every consultation in the system by status.
func (s *AdminService) ConsultationStats(ctx context.Context) (*models.ConsultationStats, error) {
	if _, err := s.admin(); err != nil {
		return nil, err
	}
	res, err := s.client.AllConsultationStats(ctx)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load consultation statistics")
	}
	return res, nil
}

func (s *AdminService) CreateUser(ctx context.Context, req models.NewUserRequest) (*models.UserResponse, error) {
	if _, err := s.admin(); err != nil {
		return nil, err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	res, err := s.client.CreateUser(ctx, req)
	if err != nil {
		return nil, client.NewRequestError(err, "could not create user")
	}
	s.log.Info(ctx, "user created", "email", req.Email, "role", req.Role)
	return res, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, userID string, upd models.UserUpdate) (*models.UserResponse, error) {
	if _, err := s.admin(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrMissingID
	}
	upd.Name = strings.TrimSpace(upd.Name)
	if err := s.validate.Struct(upd); err != nil {
		return nil, err
	}
	res, err := s.client.UpdateUser(ctx, userID, upd)
	if err != nil {
		return nil, client.NewRequestError(err, "could not update user")
	}
	return res, nil
}

// SetBlocked blocks or unblocks an account; blocked users cannot log in.
func (s *AdminService) SetBlocked(ctx context.Context, userID string, blocked bool) (*models.UserResponse, error) {
	if _, err := s.admin(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrMissingID
	}
	res, err := s.client.BlockUser(ctx, userID, blocked)
	if err != nil {
		return nil, client.NewRequestError(err, "could not change user status")
	}
	s.log.Info(ctx, "user block status changed", "user_id", userID, "blocked", blocked)
	return res, nil
}

// DeleteUser removes an account with its predictions and chat history.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) (*models.UserResponse, error) {
	if _, err := s.admin(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrMissingID
	}
	res, err := s.client.DeleteUser(ctx, userID)
	if err != nil {
		return nil, client.NewRequestError(err, "could not delete user")
	}
	s.log.Info(ctx, "user deleted", "user_id", userID)
	return res, nil
}
