package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

var errUsage = errors.New("missing argument, type 'help' for usage")

// Consult sends a consultation request to a provider.
func (a *App) Consult(ctx context.Context, args []string) error {
	var req models.ConsultationRequest
	if len(args) > 0 {
		req.ProviderEmail = args[0]
	}
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Provider email", &req.ProviderEmail},
		{"Subject", &req.Subject},
		{"Message", &req.Message},
		{"Priority (low, normal, high, urgent; Enter for normal)", &req.Priority},
	}
	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	c, err := a.care.RequestConsultation(ctx, req)
	if err != nil {
		return err
	}
	a.printer.Success("Consultation request sent to %s (id %s).", firstNonEmpty(c.ProviderName, c.ProviderEmail, req.ProviderEmail), c.ID)
	return nil
}

func (a *App) Consultations(ctx context.Context, _ []string) error {
	items, err := a.care.Consultations(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.printer.Print("No consultation requests.")
		return nil
	}
	// Patients see who they wrote to, providers who wrote to them.
	treating := a.role().CanTreat()
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		with := firstNonEmpty(c.ProviderName, c.ProviderEmail)
		if treating {
			with = firstNonEmpty(c.PatientName, c.PatientEmail)
		}
		rows = append(rows, []string{c.ID, shortTime(c.CreatedAt), with, c.Subject, c.Priority, c.Status})
	}
	return a.printer.Table([]string{"id", "date", "with", "subject", "priority", "status"}, rows)
}

func (a *App) ShowConsultation(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	c, err := a.care.Consultation(ctx, args[0])
	if err != nil {
		return err
	}
	a.printConsultation(c)
	return nil
}

func (a *App) printConsultation(c *models.Consultation) {
	a.printer.Header(c.Subject)
	a.printer.Print("From:     %s <%s>", c.PatientName, c.PatientEmail)
	a.printer.Print("To:       %s <%s>", c.ProviderName, c.ProviderEmail)
	a.printer.Print("Priority: %s", c.Priority)
	a.printer.Print("Status:   %s", c.Status)
	a.printer.Print("Sent:     %s", shortTime(c.CreatedAt))
	a.printer.Print("")
	a.printer.Print("%s", c.Message)
	if c.ResponseMessage != "" {
		a.printer.Print("")
		a.printer.Info("Response: %s", c.ResponseMessage)
	}
}

// Respond answers a consultation request: respond <id> <status> [message].
func (a *App) Respond(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id := args[0]
	var upd models.ConsultationUpdate
	if len(args) > 1 {
		upd.Status = args[1]
		upd.ResponseMessage = strings.Join(args[2:], " ")
	} else {
		var err error
		if upd.Status, err = getSimpleText(a.reader, "Status (accepted, declined, closed)", a.out); err != nil {
			return err
		}
		if upd.ResponseMessage, err = getSimpleText(a.reader, "Message to the patient (optional)", a.out); err != nil {
			return err
		}
	}

	c, err := a.care.RespondConsultation(ctx, id, upd)
	if err != nil {
		return err
	}
	a.printer.Success("Consultation %s is now %s.", c.ID, c.Status)
	return nil
}

func (a *App) ConsultStats(ctx context.Context, _ []string) error {
	st, err := a.care.ConsultationStats(ctx)
	if err != nil {
		return err
	}
	return a.printConsultStats(st)
}

func (a *App) printConsultStats(st *models.ConsultationStats) error {
	return a.printer.Table([]string{"status", "count"}, [][]string{
		{"pending", fmt.Sprint(st.Pending)},
		{"accepted", fmt.Sprint(st.Accepted)},
		{"declined", fmt.Sprint(st.Declined)},
		{"closed", fmt.Sprint(st.Closed)},
		{"total", fmt.Sprint(st.Total)},
	})
}

// Patients shows the healthcare provider dashboard.
func (a *App) Patients(ctx context.Context, _ []string) error {
	d, err := a.care.ProviderDashboard(ctx)
	if err != nil {
		return err
	}
	s := d.Statistics
	if err := a.printer.Table([]string{"metric", "value"}, [][]string{
		{"patients", fmt.Sprint(s.TotalPatients)},
		{"assessments", fmt.Sprint(s.TotalAssessments)},
		{"high risk", fmt.Sprint(s.HighRiskAlerts)},
		{"low risk", fmt.Sprint(s.LowRiskCount)},
		{"worsening", fmt.Sprint(s.AtRiskAlerts)},
		{"improved", fmt.Sprint(s.RecentlyImproved)},
	}); err != nil {
		return err
	}

	if len(d.HighRiskPatients) > 0 {
		a.printer.Header("High risk patients")
		rows := make([][]string, 0, len(d.HighRiskPatients))
		for _, p := range d.HighRiskPatients {
			rows = append(rows, []string{
				shortTime(p.CreatedAt), p.PatientName, p.UserEmail, p.Phone,
				a.printer.Risk(p.PredictedRisk), fmt.Sprintf("%.0f%%", p.Probability*100),
			})
		}
		if err := a.printer.Table([]string{"date", "patient", "email", "phone", "risk", "probability"}, rows); err != nil {
			return err
		}
	}
	if len(d.AtRiskAlerts) > 0 {
		a.printer.Header("Worsening trends")
		if err := a.printTrends(d.AtRiskAlerts, func(t models.TrendAlert) string {
			return fmt.Sprintf("+%.1f%%", t.WorseningPercent)
		}); err != nil {
			return err
		}
	}
	if len(d.RecentlyImproved) > 0 {
		a.printer.Header("Recently improved")
		return a.printTrends(d.RecentlyImproved, func(t models.TrendAlert) string {
			return fmt.Sprintf("-%.1f%%", t.ImprovementPercent)
		})
	}
	return nil
}

func (a *App) printTrends(alerts []models.TrendAlert, change func(models.TrendAlert) string) error {
	rows := make([][]string, 0, len(alerts))
	for _, t := range alerts {
		rows = append(rows, []string{
			shortTime(t.LatestDate), t.PatientName, t.Phone,
			a.printer.Risk(t.CurrentRisk), fmt.Sprintf("%.0f%%", t.CurrentProbability*100), change(t),
		})
	}
	return a.printer.Table([]string{"date", "patient", "phone", "risk", "probability", "change"}, rows)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
