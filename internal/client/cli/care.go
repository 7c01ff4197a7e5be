package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

// Predict walks through the assessment form and shows the model's verdict.
func (a *App) Predict(ctx context.Context, _ []string) error {
	var data models.PatientData
	fields := []struct {
		prompt   string
		optional bool
		dst      *float64
	}{
		{"Age (years)", false, &data.Age},
		{"Systolic blood pressure (mmHg)", false, &data.SystolicBP},
		{"Diastolic blood pressure (mmHg)", false, &data.Diastolic},
		{"Blood sugar (mmol/L)", true, &data.BS},
		{"Body temperature (°C)", true, &data.BodyTemp},
		{"BMI", true, &data.BMI},
		{"Heart rate (bpm)", true, &data.HeartRate},
	}

	for _, f := range fields {
		v, err := GetNumber(a.reader, f.prompt, f.optional, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	res, err := a.care.Predict(ctx, data)
	if err != nil {
		return err
	}
	a.printPrediction(res)
	return nil
}

func (a *App) printPrediction(res *models.PredictionResult) {
	p := res.Prediction
	a.printer.Header("Assessment result")
	a.printer.Print("Risk level:  %s", a.printer.Risk(p.RiskLevel))
	a.printer.Print("Probability: %.1f%%", p.ProbabilityHigh*100)
	a.printer.Print("Confidence:  %.1f%%", p.Confidence*100)
	if top := res.Explanation.TopFeatures(3); len(top) > 0 {
		a.printer.Print("Main factors: %s", strings.Join(top, ", "))
	}
	if res.Explanation.Summary != "" {
		a.printer.Print("%s", res.Explanation.Summary)
	}
	if p.HighRisk() {
		a.printer.Warning("Please contact your healthcare provider.")
	}
}

func (a *App) History(ctx context.Context, _ []string) error {
	items, err := a.care.History(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.printer.Print("No assessments yet. Run 'predict' to start.")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			shortTime(it.Timestamp),
			a.printer.Risk(it.RiskLevel),
			fmt.Sprintf("%.0f/%.0f", it.RiskScore, it.MaxScore),
			fmt.Sprintf("%.0f%%", it.Probability*100),
			fmt.Sprintf("%.0f", it.Age),
			fmt.Sprintf("%.0f/%.0f", it.SystolicBP, it.Diastolic),
		})
	}
	return a.printer.Table([]string{"date", "risk", "score", "probability", "age", "bp"}, rows)
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	records, err := a.care.Dashboard(ctx)
	if err != nil {
		return err
	}
	return a.printRecords(records)
}

func (a *App) printRecords(records []models.PredictionRecord) error {
	if len(records) == 0 {
		a.printer.Print("No predictions yet.")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			shortTime(r.CreatedAt),
			r.UserEmail,
			a.printer.Risk(r.PredictedRisk),
			fmt.Sprintf("%.0f%%", r.Probability*100),
			fmt.Sprintf("%.0f/%.0f", r.SystolicBP, r.Diastolic),
		})
	}
	return a.printer.Table([]string{"date", "patient", "risk", "probability", "bp"}, rows)
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	res, err := a.care.Stats(ctx)
	if err != nil {
		return err
	}
	last := "never"
	if res.Stats.LastAssessment != nil && *res.Stats.LastAssessment != "" {
		last = shortTime(*res.Stats.LastAssessment)
	}
	if err := a.printer.Table([]string{"metric", "value"}, [][]string{
		{"completed assessments", fmt.Sprint(res.Stats.CompletedAssessments)},
		{"upcoming checkups", fmt.Sprint(res.Stats.UpcomingCheckups)},
		{"high risk alerts", fmt.Sprint(res.Stats.HighRiskAlerts)},
		{"last assessment", last},
	}); err != nil {
		return err
	}
	if len(res.RecentAssessments) > 0 {
		a.printer.Header("Recent assessments")
		return a.printRecords(res.RecentAssessments)
	}
	return nil
}

// Watch refreshes the dashboard every poll interval until Enter is pressed.
// Each refresh is an independent request; once the session ends polling
// stops and only Enter is awaited.
func (a *App) Watch(ctx context.Context, _ []string) error {
	interval := a.config.PollInterval
	a.printer.Info("Refreshing every %s. Press Enter to stop.", interval)

	// The reader goroutine is not interruptible. When ctx ends first it stays
	// parked on stdin until the next line or EOF; ctx only ends when the
	// whole REPL is shutting down, so nothing else reads that line.
	stop := make(chan struct{})
	go func() {
		_, _ = a.reader.ReadString('\n')
		close(stop)
	}()

	refresh := func() {
		if err := a.Dashboard(ctx, nil); err != nil {
			a.reportError(err)
		}
	}
	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	tick := ticker.C
	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return nil
		case <-tick:
			if !a.isLoggedIn() {
				a.printer.Warning("Signed out. Press Enter to continue.")
				tick = nil
				continue
			}
			a.printer.Print("-- %s --", time.Now().Format(time.TimeOnly))
			refresh()
		}
	}
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	prof, err := a.care.Profile(ctx)
	if err != nil {
		return err
	}
	if prof == nil {
		a.printer.Print("No profile found.")
		return nil
	}
	keys := make([]string, 0, len(prof))
	for k := range prof {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		if prof[k] == nil {
			continue
		}
		rows = append(rows, []string{k, fmt.Sprint(prof[k])})
	}
	return a.printer.Table([]string{"field", "value"}, rows)
}

func (a *App) Chat(ctx context.Context, args []string) error {
	msg := strings.Join(args, " ")
	if msg == "" {
		var err error
		if msg, err = getSimpleText(a.reader, "Your message", a.out); err != nil {
			return err
		}
	}
	reply, err := a.care.Chat(ctx, msg)
	if err != nil {
		return err
	}
	a.printer.Info("%s", reply.Response)
	return nil
}

func (a *App) NewChat(ctx context.Context, _ []string) error {
	conv, err := a.care.NewConversation(ctx)
	if err != nil {
		return err
	}
	a.printer.Success("Started conversation %s", conv.ConversationID)
	return nil
}

func (a *App) ChatHistory(ctx context.Context, _ []string) error {
	msgs, err := a.care.ChatHistory(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		a.printer.Print("No conversations yet.")
		return nil
	}
	for _, m := range msgs {
		a.printer.Print("[%s] you: %s", shortTime(m.CreatedAt), m.UserMessage)
		a.printer.Info("assistant: %s", m.BotResponse)
	}
	return nil
}

// shortTime trims an ISO timestamp to minutes; anything unparsable is
// returned as is.
func shortTime(s string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return s
}
