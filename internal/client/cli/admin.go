package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/common"
)

func (a *App) AdminDashboard(ctx context.Context, _ []string) error {
	d, err := a.admin.Dashboard(ctx)
	if err != nil {
		return err
	}
	s := d.Statistics
	if err := a.printer.Table([]string{"metric", "value"}, [][]string{
		{"users", fmt.Sprint(s.TotalUsers)},
		{"pregnant women", fmt.Sprint(s.PregnantWomen)},
		{"healthcare providers", fmt.Sprint(s.HealthcareProviders)},
		{"admins", fmt.Sprint(s.Admins)},
		{"assessments", fmt.Sprint(s.TotalAssessments)},
		{"high risk cases", fmt.Sprint(s.HighRiskCases)},
		{"low risk cases", fmt.Sprint(s.LowRiskCases)},
		{"chat sessions", fmt.Sprint(s.ChatSessions)},
	}); err != nil {
		return err
	}
	if len(d.Users) == 0 {
		return nil
	}

	a.printer.Header("Users")
	rows := make([][]string, 0, len(d.Users))
	for _, u := range d.Users {
		last := "never"
		if u.LastAssessment != nil {
			last = shortTime(*u.LastAssessment)
		}
		rows = append(rows, []string{
			u.ID, u.Name, u.Email, string(u.Role),
			fmt.Sprint(u.AssessmentCount), fmt.Sprint(u.HighRiskCount), last,
		})
	}
	return a.printer.Table([]string{"id", "name", "email", "role", "assessments", "high risk", "last assessment"}, rows)
}

func (a *App) AdminConsultStats(ctx context.Context, _ []string) error {
	st, err := a.admin.ConsultationStats(ctx)
	if err != nil {
		return err
	}
	return a.printConsultStats(st)
}

const rolePrompt = "Role (pregnant_woman, healthcare_provider, admin)"

func (a *App) UserAdd(ctx context.Context, _ []string) error {
	var req models.NewUserRequest
	var role string
	var err error
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &req.Name},
		{"Email", &req.Email},
		{"Phone number", &req.Phone},
		{rolePrompt, &role},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}
	req.Role = models.Role(strings.ToLower(role))

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	res, err := a.admin.CreateUser(ctx, req)
	if err != nil {
		return err
	}
	a.printer.Success("%s", firstNonEmpty(res.Message, "User created."))
	return nil
}

// UserEdit changes a user's name, role or both. Empty answers keep the
// current value.
func (a *App) UserEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	var upd models.UserUpdate
	var err error
	if upd.Name, err = getSimpleText(a.reader, "New name (Enter to keep)", a.out); err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, rolePrompt+" (Enter to keep)", a.out)
	if err != nil {
		return err
	}
	upd.Role = models.Role(strings.ToLower(role))

	res, err := a.admin.UpdateUser(ctx, args[0], upd)
	if err != nil {
		return err
	}
	a.printer.Success("%s", firstNonEmpty(res.Message, "User updated."))
	return nil
}

func (a *App) UserBlock(ctx context.Context, args []string) error {
	return a.setBlocked(ctx, args, true)
}

func (a *App) UserUnblock(ctx context.Context, args []string) error {
	return a.setBlocked(ctx, args, false)
}

func (a *App) setBlocked(ctx context.Context, args []string, blocked bool) error {
	if len(args) == 0 {
		return errUsage
	}
	res, err := a.admin.SetBlocked(ctx, args[0], blocked)
	if err != nil {
		return err
	}
	a.printer.Success("%s", res.Message)
	return nil
}

// UserDelete removes a user after confirmation.
func (a *App) UserDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete user %s with all their assessments and chats?", args[0]), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.printer.Print("Nothing deleted.")
		return nil
	}
	res, err := a.admin.DeleteUser(ctx, args[0])
	if err != nil {
		return err
	}
	a.printer.Success("%s", firstNonEmpty(res.Message, "User deleted."))
	return nil
}
