package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/gateway"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/session"
	"github.com/wombguard/wombguard-cli/internal/validatex"
)

func signedIn(role models.Role) (*fakeClient, *session.Store, *CareService) {
	fc := &fakeClient{}
	store := session.NewStore()
	store.Set(&models.Identity{ID: "u7", Email: "p@x.com", Role: role})
	return fc, store, NewCareService(fc, store)
}

func validReading() models.PatientData {
	return models.PatientData{Age: 29, SystolicBP: 120, Diastolic: 80, BodyTemp: 36.8, HeartRate: 76}
}

func TestCare_RequiresIdentity(t *testing.T) {
	fc := &fakeClient{}
	svc := NewCareService(fc, session.NewStore())
	ctx := context.Background()

	_, err := svc.Predict(ctx, validReading())
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.History(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.Dashboard(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.Stats(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.Profile(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.Chat(ctx, "hi")
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.NewConversation(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.ChatHistory(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, fc.PredictCalls)
}

func TestCare_PredictValidatesBeforeSending(t *testing.T) {
	fc, _, svc := signedIn(models.RolePatient)

	bad := validReading()
	bad.Age = 5
	bad.BMI = 70
	_, err := svc.Predict(context.Background(), bad)

	var verr *validatex.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Age")
	assert.Contains(t, verr.Fields, "BMI")
	assert.NotContains(t, verr.Fields, "BS", "unmeasured optional readings pass")
	assert.Zero(t, fc.PredictCalls)
}

func TestCare_Predict(t *testing.T) {
	fc, _, svc := signedIn(models.RolePatient)
	fc.PredictRet = &models.PredictionResult{Prediction: models.Prediction{RiskLevel: "High Risk", ProbabilityHigh: 0.82}}

	res, err := svc.Predict(context.Background(), validReading())
	require.NoError(t, err)
	assert.True(t, res.Prediction.HighRisk())
	assert.Equal(t, "p@x.com", fc.LastPredictEmail)
	assert.Equal(t, validReading(), fc.LastPredict)

	fc.PredictErr = &gateway.APIError{StatusCode: http.StatusInternalServerError, Detail: "Model not loaded"}
	_, err = svc.Predict(context.Background(), validReading())
	var reqErr *client.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Model not loaded", reqErr.Message)
}

func TestCare_DashboardRoleMapping(t *testing.T) {
	tests := []struct {
		name      string
		role      models.Role
		wantRole  models.Role
		wantEmail string
	}{
		{"patient", models.RolePatient, models.RolePatient, "p@x.com"},
		{"legacy patient role", models.Role("patient"), models.RolePatient, "p@x.com"},
		{"provider", models.RoleProvider, models.RoleProvider, ""},
		{"legacy provider role", models.Role("provider"), models.RoleProvider, ""},
		{"admin", models.RoleAdmin, models.RoleAdmin, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, _, svc := signedIn(tt.role)
			fc.DashboardRet = []models.PredictionRecord{{}}

			got, err := svc.Dashboard(context.Background())
			require.NoError(t, err)
			assert.Len(t, got, 1)
			assert.Equal(t, tt.wantRole, fc.LastRole)
			assert.Equal(t, tt.wantEmail, fc.LastEmail)
		})
	}
}

func TestCare_DashboardUnauthorized(t *testing.T) {
	fc, _, svc := signedIn(models.RolePatient)
	fc.DashboardErr = &gateway.APIError{StatusCode: http.StatusUnauthorized}

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestCare_DashboardFailureMessage(t *testing.T) {
	fc, _, svc := signedIn(models.RoleProvider)

	fc.DashboardErr = &gateway.APIError{StatusCode: http.StatusInternalServerError, Method: "GET", Path: "/dashboard"}
	_, err := svc.Dashboard(context.Background())
	var reqErr *client.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "could not load dashboard", reqErr.Error())

	fc.DashboardErr = &gateway.APIError{StatusCode: http.StatusForbidden, Detail: "Access denied"}
	_, err = svc.Dashboard(context.Background())
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Access denied", reqErr.Error())
}

func TestCare_ChatTracksConversation(t *testing.T) {
	fc, _, svc := signedIn(models.RolePatient)
	ctx := context.Background()
	fc.ChatRet = &models.ChatReply{Response: "Hello", ConversationID: "c1"}

	_, err := svc.Chat(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "u7", fc.LastChat.UserID)
	assert.Empty(t, fc.LastChat.ConversationID)
	assert.Equal(t, "c1", svc.Conversation())

	_, err = svc.Chat(ctx, "and again")
	require.NoError(t, err)
	assert.Equal(t, "c1", fc.LastChat.ConversationID)

	fc.ConvRet = &models.Conversation{ConversationID: "c2", UserID: "u7"}
	_, err = svc.NewConversation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u7", fc.LastUserID)
	assert.Equal(t, "c2", svc.Conversation())

	svc.ResetConversation()
	assert.Empty(t, svc.Conversation())

	_, err = svc.Chat(ctx, "")
	require.Error(t, err)
}

func TestCare_ProfileAndHistory(t *testing.T) {
	fc, _, svc := signedIn(models.RolePatient)
	ctx := context.Background()
	fc.ProfileRet = map[string]any{"email": "p@x.com", "phone": "0700"}
	fc.HistoryRet = []models.RiskAssessment{{}, {}}

	prof, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0700", prof["phone"])

	hist, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
	assert.Equal(t, "p@x.com", fc.LastEmail)
}
