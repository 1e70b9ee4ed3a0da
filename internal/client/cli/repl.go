package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/services"
	"github.com/dmitrijs2005/namecard/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Google(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Create(ctx context.Context) error
	Gallery(ctx context.Context, args []string) error
	Mine(ctx context.Context) error
	Share(ctx context.Context, shareID string) error
	Delete(ctx context.Context, cardID string) error
	Stats(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, google, gallery [term] [lang:<code>], share <shareId>, stats, exit"
	helpSigned = "Available commands: whoami, create, gallery [term] [lang:<code>], mine, share <shareId>, delete <cardId>, logout, delete-account, stats, exit"
)

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit"/"quit". Commands prompt on the same reader, so it must be the only
// buffer over the input. statusFn feeds the prompt. Command errors are
// printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nc> %s > ", statusFn()))
		line, rerr := reader.ReadString('\n')
		if rerr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSigned)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "google":
			err = a.Google(ctx)

		case "delete-account":
			err = a.DeleteAccount(ctx)

		case "create":
			err = a.Create(ctx)

		case "gallery":
			err = a.Gallery(ctx, args)

		case "mine":
			err = a.Mine(ctx)

		case "share":
			if len(args) != 1 {
				printlnFn("Usage: share <shareId>")
				continue
			}
			err = a.Share(ctx, args[0])

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <cardId>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}

// describeError turns service errors into a line for the terminal.
func describeError(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, session.ErrSessionChanged):
		return "the session changed while the request was running, try again"
	case errors.Is(err, session.ErrNoSession):
		return "not signed in, use 'login' first"
	case errors.Is(err, client.ErrSignOutFailed):
		return "account deleted, but the local session could not be cleared; run 'logout'"
	case errors.Is(err, services.ErrNotOwner):
		return "you can only delete your own cards"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, client.ErrAuth):
		return "not signed in, use 'login' first"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.Is(err, client.ErrNetwork):
		return "service unreachable: " + err.Error()
	}
	return err.Error()
}
