package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wombguard/wombguard-cli/internal/client/models"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	role() models.Role
	reportError(err error)

	Register(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Adopt(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Health(ctx context.Context, args []string) error

	Predict(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Dashboard(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Chat(ctx context.Context, args []string) error
	NewChat(ctx context.Context, args []string) error
	ChatHistory(ctx context.Context, args []string) error
	Contact(ctx context.Context, args []string) error
	Forget(ctx context.Context, args []string) error

	Consult(ctx context.Context, args []string) error
	Consultations(ctx context.Context, args []string) error
	ShowConsultation(ctx context.Context, args []string) error
	Respond(ctx context.Context, args []string) error
	ConsultStats(ctx context.Context, args []string) error
	Patients(ctx context.Context, args []string) error

	AdminDashboard(ctx context.Context, args []string) error
	AdminConsultStats(ctx context.Context, args []string) error
	UserAdd(ctx context.Context, args []string) error
	UserEdit(ctx context.Context, args []string) error
	UserBlock(ctx context.Context, args []string) error
	UserUnblock(ctx context.Context, args []string) error
	UserDelete(ctx context.Context, args []string) error
}

type command struct {
	name    string
	aliases []string
	// signedIn commands are refused while nobody is signed in; signedOut
	// ones while somebody is.
	signedIn, signedOut bool
	// roles, when set, limits a signed-in command to the roles it accepts.
	roles func(models.Role) bool
	// endsSession commands sign out on purpose and get no notice for it.
	endsSession bool
	usage       string
	run         func(execIface, context.Context, []string) error
}

func isAdmin(r models.Role) bool { return r == models.RoleAdmin }

var commands = []command{
	{name: "register", signedOut: true, usage: "create an account", run: execIface.Register},
	{name: "verify", signedOut: true, usage: "verify <token> - confirm your email address", run: execIface.Verify},
	{name: "login", signedOut: true, usage: "sign in", run: execIface.Login},
	{name: "adopt", signedOut: true, usage: "adopt <session-token> - sign in with an auth provider session", run: execIface.Adopt},
	{name: "health", usage: "check the backend", run: execIface.Health},
	{name: "whoami", aliases: []string{"status"}, signedIn: true, usage: "show the current session", run: execIface.Whoami},
	{name: "predict", signedIn: true, usage: "run a pregnancy risk assessment", run: execIface.Predict},
	{name: "history", signedIn: true, usage: "list your past assessments", run: execIface.History},
	{name: "dashboard", aliases: []string{"d"}, signedIn: true, usage: "show recent predictions", run: execIface.Dashboard},
	{name: "stats", signedIn: true, usage: "show dashboard statistics", run: execIface.Stats},
	{name: "watch", signedIn: true, usage: "refresh the dashboard until Enter is pressed", run: execIface.Watch},
	{name: "profile", signedIn: true, usage: "show your profile", run: execIface.Profile},
	{name: "chat", signedIn: true, usage: "chat <message> - ask the assistant", run: execIface.Chat},
	{name: "newchat", signedIn: true, usage: "start a new conversation", run: execIface.NewChat},
	{name: "chathistory", signedIn: true, usage: "show past conversations", run: execIface.ChatHistory},
	{name: "consult", signedIn: true, roles: models.Role.IsPatient, usage: "consult [provider-email] - request a consultation", run: execIface.Consult},
	{name: "consultations", aliases: []string{"cl"}, signedIn: true, usage: "list your consultation requests", run: execIface.Consultations},
	{name: "consultation", signedIn: true, usage: "consultation <id> - show one consultation request", run: execIface.ShowConsultation},
	{name: "respond", signedIn: true, roles: models.Role.CanTreat, usage: "respond <id> <accepted|declined|closed> [message] - answer a request", run: execIface.Respond},
	{name: "cstats", signedIn: true, usage: "count your consultations by status", run: execIface.ConsultStats},
	{name: "patients", signedIn: true, roles: models.Role.CanTreat, usage: "show the healthcare provider dashboard", run: execIface.Patients},
	{name: "admin", signedIn: true, roles: isAdmin, usage: "show the admin dashboard", run: execIface.AdminDashboard},
	{name: "admin-cstats", signedIn: true, roles: isAdmin, usage: "count all consultations by status", run: execIface.AdminConsultStats},
	{name: "useradd", signedIn: true, roles: isAdmin, usage: "create a user of any role", run: execIface.UserAdd},
	{name: "useredit", signedIn: true, roles: isAdmin, usage: "useredit <user-id> - change a user's name or role", run: execIface.UserEdit},
	{name: "userblock", signedIn: true, roles: isAdmin, usage: "userblock <user-id> - stop a user from logging in", run: execIface.UserBlock},
	{name: "userunblock", signedIn: true, roles: isAdmin, usage: "userunblock <user-id> - let a blocked user log in again", run: execIface.UserUnblock},
	{name: "userdel", signedIn: true, roles: isAdmin, usage: "userdel <user-id> - delete a user and their data", run: execIface.UserDelete},
	{name: "contact", usage: "send a message to the WombGuard team", run: execIface.Contact},
	{name: "logout", signedIn: true, endsSession: true, usage: "sign out", run: execIface.Logout},
	{name: "forget", endsSession: true, usage: "sign out and remove all locally stored data", run: execIface.Forget},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
		for _, al := range c.aliases {
			if al == name {
				return c, true
			}
		}
	}
	return command{}, false
}

// allowed reports whether c may run in the given session state.
func (c command) allowed(loggedIn bool, role models.Role) bool {
	switch {
	case c.signedIn && !loggedIn, c.signedOut && loggedIn:
		return false
	case c.roles != nil && loggedIn:
		return c.roles(role)
	}
	return true
}

func printHelp(w io.Writer, loggedIn bool, role models.Role) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range commands {
		if !c.allowed(loggedIn, role) {
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(w, "  %-12s %s\n", "help", "show available commands")
	fmt.Fprintf(w, "  %-12s %s\n", "exit", "leave the program")
}

// runREPL starts a simple read–eval–print loop for the WombGuard CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
// Commands that need a signed-in user are refused with a hint to log in,
// which is the CLI form of redirecting a guarded page to the login page.
// A command that leaves the user signed out without asking for it (the
// backend rejected the credential) is followed by a notice.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(w, "wombguard %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(w)
				return nil
			}
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(w, a.isLoggedIn(), a.role())
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return nil
		}

		cmd, ok := lookup(name)
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}

		wasLoggedIn := a.isLoggedIn()
		switch {
		case cmd.signedIn && !wasLoggedIn:
			fmt.Fprintln(w, "Please log in first (type 'login' or 'register').")
			continue
		case cmd.signedOut && wasLoggedIn:
			fmt.Fprintln(w, "You are already signed in. Log out first.")
			continue
		case !cmd.allowed(wasLoggedIn, a.role()):
			fmt.Fprintln(w, "This command is not available for your role.")
			continue
		}

		if err := cmd.run(a, ctx, args); err != nil {
			a.reportError(err)
		}

		if wasLoggedIn && !a.isLoggedIn() && !cmd.endsSession {
			fmt.Fprintln(w, "Your session has ended. Please log in again.")
		}
	}
}

// Root waits for the start-up identity resolution and then runs the REPL.
func (a *App) Root(ctx context.Context) error {
	a.printer.Info("Welcome to WombGuard CLI (type 'help' for commands)")

	if a.store.Loading() {
		fmt.Fprintln(a.out, "Restoring session...")
		select {
		case <-a.store.Ready():
		case <-ctx.Done():
			return nil
		}
	}
	if id := a.store.Current(); id != nil {
		a.printer.Success("Signed in as %s", id.DisplayName())
	}

	return runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
