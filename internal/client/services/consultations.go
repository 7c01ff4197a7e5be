package services

import (
	"context"
	"strings"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/models"
)

// ProviderDashboard returns the healthcare worker overview: patients at
// high risk, worsening and improving trends and recent assessments.
func (s *CareService) ProviderDashboard(ctx context.Context) (*models.ProviderDashboard, error) {
	id, err := s.currentAs(models.Role.CanTreat)
	if err != nil {
		return nil, err
	}
	res, err := s.client.ProviderDashboard(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load provider dashboard")
	}
	return res, nil
}

// RequestConsultation asks a provider for a consultation. Only patients
// send requests.
func (s *CareService) RequestConsultation(ctx context.Context, req models.ConsultationRequest) (*models.Consultation, error) {
	id, err := s.currentAs(models.Role.IsPatient)
	if err != nil {
		return nil, err
	}
	req.ProviderEmail = strings.ToLower(strings.TrimSpace(req.ProviderEmail))
	req.Priority = strings.ToLower(strings.TrimSpace(req.Priority))
	if req.Priority == "" {
		req.Priority = "normal"
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	res, err := s.client.RequestConsultation(ctx, id.Email, req)
	if err != nil {
		return nil, client.NewRequestError(err, "could not send consultation request")
	}
	return res, nil
}

// Consultations lists the requests the user sent (patients) or received
// (providers).
func (s *CareService) Consultations(ctx context.Context) ([]models.Consultation, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	res, err := s.client.Consultations(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load consultations")
	}
	return res, nil
}

func (s *CareService) Consultation(ctx context.Context, consultationID string) (*models.Consultation, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	if consultationID == "" {
		return nil, ErrMissingID
	}
	res, err := s.client.Consultation(ctx, id.Email, consultationID)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load consultation")
	}
	return res, nil
}

// RespondConsultation accepts, declines or closes a request addressed to
// the current provider.
func (s *CareService) RespondConsultation(ctx context.Context, consultationID string, upd models.ConsultationUpdate) (*models.Consultation, error) {
	id, err := s.currentAs(models.Role.CanTreat)
	if err != nil {
		return nil, err
	}
	if consultationID == "" {
		return nil, ErrMissingID
	}
	upd.Status = strings.ToLower(strings.TrimSpace(upd.Status))
	if err := s.validate.Struct(upd); err != nil {
		return nil, err
	}
	res, err := s.client.UpdateConsultation(ctx, id.Email, consultationID, upd)
	if err != nil {
		return nil, client.NewRequestError(err, "could not update consultation")
	}
	return res, nil
}

func (s *CareService) ConsultationStats(ctx context.Context) (*models.ConsultationStats, error) {
	id, err := s.current()
	if err != nil {
		return nil, err
	}
	res, err := s.client.ConsultationStats(ctx, id.Email)
	if err != nil {
		return nil, client.NewRequestError(err, "could not load consultation statistics")
	}
	return res, nil
}

// Contact sends a message to the WombGuard team. It works signed out too;
// a signed-in sender's name, email and role fill whatever msg leaves empty.
func (s *CareService) Contact(ctx context.Context, msg models.ContactMessage) (string, error) {
	if id := s.store.Current(); id != nil {
		if msg.Name == "" {
			msg.Name = id.DisplayName()
		}
		if msg.Email == "" {
			msg.Email = id.Email
		}
		if msg.UserType == "" {
			msg.UserType = string(id.Role)
		}
	}
	if err := s.validate.Struct(msg); err != nil {
		return "", err
	}
	ack, err := s.client.SendContactMessage(ctx, msg)
	if err != nil {
		return "", client.NewRequestError(err, "could not send message")
	}
	return ack, nil
}
