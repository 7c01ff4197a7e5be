package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/common"
	"github.com/wombguard/wombguard-cli/internal/validatex"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// reportError prints err for the user. Validation failures list every field.
func (a *App) reportError(err error) {
	var verr *validatex.ValidationError
	var reqErr *client.RequestError
	switch {
	case errors.As(err, &verr):
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			a.printer.Error("%s", verr.Fields[k])
		}
	case errors.As(err, &reqErr):
		a.printer.Error("%s", reqErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		a.printer.Error("server unavailable")
	default:
		a.printer.Error("%v", err)
	}
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.printer.Success("Welcome, %s!", id.DisplayName())
	return nil
}

// Register collects the signup form. The account stays pending until the
// emailed link, or the verify command, confirms the address.
func (a *App) Register(ctx context.Context, _ []string) error {
	var req models.RegisterRequest
	var err error
	if req.Name, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.Phone, err = getSimpleText(a.reader, "Enter phone number", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	resp, err := a.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	msg := resp.Message
	if msg == "" {
		msg = "Registration successful. Please check your email to verify your account."
	}
	a.printer.Success("%s", msg)
	if resp.VerificationToken != "" {
		a.printer.Print("To verify from here, run: verify %s", resp.VerificationToken)
	}
	return nil
}

func (a *App) Verify(ctx context.Context, args []string) error {
	token := strings.Join(args, "")
	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Enter verification token", a.out); err != nil {
			return err
		}
	}
	resp, err := a.auth.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}
	a.printer.Success("Email %s verified. You can log in now.", resp.Email)
	return nil
}

func (a *App) Adopt(ctx context.Context, args []string) error {
	token := strings.Join(args, "")
	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Enter provider session token", a.out); err != nil {
			return err
		}
	}
	id, err := a.auth.AdoptSession(ctx, token)
	if err != nil {
		return err
	}
	a.printer.Success("Welcome, %s!", id.DisplayName())
	return nil
}

// Logout signs out. The local session is gone even when the error is not
// nil.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.care.ResetConversation()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.printer.Success("Signed out.")
	return nil
}

func (a *App) Whoami(ctx context.Context, _ []string) error {
	st := a.auth.Status(ctx)
	if st.Identity == nil {
		a.printer.Print("Not signed in.")
		return nil
	}
	id := st.Identity
	a.printer.Header(id.DisplayName())
	rows := [][]string{
		{"id", id.ID},
		{"email", id.Email},
		{"role", string(id.Role)},
	}
	switch {
	case !st.HasToken:
		rows = append(rows, []string{"token", "none (provider session)"})
	case st.Claims == nil:
		rows = append(rows, []string{"token", "present"})
	default:
		exp := "never"
		if !st.Claims.ExpiresAt.IsZero() {
			exp = st.Claims.ExpiresAt.Local().Format(time.RFC1123)
			if st.Claims.Expired(time.Now()) {
				exp += " (expired)"
			}
		}
		rows = append(rows, []string{"token expires", exp})
	}
	return a.printer.Table([]string{"field", "value"}, rows)
}

func (a *App) Health(ctx context.Context, _ []string) error {
	st, err := a.auth.Ping(ctx)
	if err != nil {
		a.setMode(ModeOffline)
		return client.NewRequestError(err, "health check failed")
	}
	if !st.Healthy() {
		a.setMode(ModeOffline)
		return fmt.Errorf("backend is %s (database: %s)", st.Status, st.Database)
	}
	a.setMode(ModeOnline)
	a.printer.Success("%s %s is %s (database: %s)", st.Service, st.Version, st.Status, st.Database)
	return nil
}

// Contact sends a message to the WombGuard team. Signed-in users are not
// asked for their name and email.
func (a *App) Contact(ctx context.Context, _ []string) error {
	var msg models.ContactMessage
	var err error
	if !a.isLoggedIn() {
		if msg.Name, err = getSimpleText(a.reader, "Your name", a.out); err != nil {
			return err
		}
		if msg.Email, err = getSimpleText(a.reader, "Your email", a.out); err != nil {
			return err
		}
	}
	if msg.Subject, err = getSimpleText(a.reader, "Subject", a.out); err != nil {
		return err
	}
	if msg.Message, err = getSimpleText(a.reader, "Message", a.out); err != nil {
		return err
	}

	ack, err := a.care.Contact(ctx, msg)
	if err != nil {
		return err
	}
	if ack == "" {
		ack = "Message sent."
	}
	a.printer.Success("%s", ack)
	return nil
}

// Forget signs out and removes everything kept on this machine, auth
// provider session tokens included.
func (a *App) Forget(ctx context.Context, _ []string) error {
	entries, err := a.local.List(ctx)
	if err != nil {
		return fmt.Errorf("read local data: %w", err)
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Sign out and remove %d locally stored entries?", len(entries)), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.printer.Print("Nothing removed.")
		return nil
	}

	if a.isLoggedIn() {
		a.care.ResetConversation()
		if err := a.auth.Logout(ctx); err != nil {
			a.reportError(err)
		}
	}
	if err := a.local.Clear(ctx); err != nil {
		return fmt.Errorf("clear local data: %w", err)
	}
	a.printer.Success("Local data removed.")
	return nil
}
