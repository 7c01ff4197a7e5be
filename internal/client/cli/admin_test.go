package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

func newAdminApp(input string) (*App, *fakeAdmin, func() string) {
	a, out := newTestApp(&fakeAuth{}, &fakeCare{}, input)
	adm := &fakeAdmin{}
	a.admin = adm
	return a, adm, out.String
}

func TestAdminDashboard(t *testing.T) {
	a, adm, out := newAdminApp("")
	last := "2024-05-01T09:30:00"
	adm.dash = &models.AdminDashboard{
		Statistics: models.AdminStatistics{TotalUsers: 3, ChatSessions: 7},
		Users: []models.UserSummary{
			{ID: "u1", Name: "Pat", Email: "p@x.com", Role: models.RolePatient, AssessmentCount: 2, LastAssessment: &last},
			{ID: "u2", Name: "Kim", Email: "k@x.com", Role: models.RoleProvider},
		},
	}

	require.NoError(t, a.AdminDashboard(context.Background(), nil))
	s := out()
	assert.Contains(t, s, "chat sessions")
	assert.Contains(t, s, "healthcare_provider")
	assert.Contains(t, s, "2024-05-01 09:30")
	assert.Contains(t, s, "never")
}

func TestAdminConsultStats(t *testing.T) {
	a, adm, out := newAdminApp("")
	adm.stats = &models.ConsultationStats{Total: 9, Accepted: 4}

	require.NoError(t, a.AdminConsultStats(context.Background(), nil))
	assert.Contains(t, out(), "accepted")
}

func TestUserAdd(t *testing.T) {
	a, adm, out := newAdminApp("")
	adm.resp = &models.UserResponse{Status: "success", Message: "User created successfully"}
	pw := []byte("secret")
	stubInputs(t, []string{"Kim", "k@x.com", "0712", "Healthcare_Provider"}, pw)

	require.NoError(t, a.UserAdd(context.Background(), nil))
	assert.Equal(t, models.NewUserRequest{Name: "Kim", Email: "k@x.com", Phone: "0712", Password: "secret", Role: models.RoleProvider}, adm.newUser)
	assert.Equal(t, make([]byte, len(pw)), pw)
	assert.Contains(t, out(), "User created successfully")
}

func TestUserEdit(t *testing.T) {
	a, adm, _ := newAdminApp("")
	require.ErrorIs(t, a.UserEdit(context.Background(), nil), errUsage)

	stubInputs(t, []string{"", "admin"}, nil)
	require.NoError(t, a.UserEdit(context.Background(), []string{"u1"}))
	assert.Equal(t, "u1", adm.userID)
	assert.Equal(t, models.UserUpdate{Role: models.RoleAdmin}, adm.update)
}

func TestUserBlockAndUnblock(t *testing.T) {
	a, adm, out := newAdminApp("")
	adm.resp = &models.UserResponse{Message: "User blocked successfully"}

	require.NoError(t, a.UserBlock(context.Background(), []string{"u1"}))
	require.NotNil(t, adm.blocked)
	assert.True(t, *adm.blocked)
	assert.Contains(t, out(), "User blocked successfully")

	require.NoError(t, a.UserUnblock(context.Background(), []string{"u1"}))
	assert.False(t, *adm.blocked)

	require.ErrorIs(t, a.UserBlock(context.Background(), nil), errUsage)
}

func TestUserDelete_AsksFirst(t *testing.T) {
	a, adm, out := newAdminApp("n\ny\n")

	require.NoError(t, a.UserDelete(context.Background(), []string{"u1"}))
	assert.Empty(t, adm.deleted)
	assert.Contains(t, out(), "Nothing deleted.")

	require.NoError(t, a.UserDelete(context.Background(), []string{"u1"}))
	assert.Equal(t, "u1", adm.deleted)
	assert.Contains(t, out(), "User deleted.")
}
