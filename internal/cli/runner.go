package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Makepad-fr/infosite/internal/tui"
	"github.com/Makepad-fr/infosite/internal/ui"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	runTUI       = tui.Run
)

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, app *App, args []string, stdin io.Reader) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "tui":
		return doTUI(ctx, app)

	case "show":
		return doShow(ctx, app)

	case "status":
		return doStatus(ctx, app)

	case "login":
		fromStdin := false
		for _, f := range a {
			switch f {
			case "--password-stdin":
				fromStdin = true
			default:
				ui.Fail("usage: infosite login [--password-stdin]")
				return 2
			}
		}
		return doLogin(ctx, app, stdin, fromStdin)

	case "logout":
		if len(a) != 0 {
			ui.Fail("usage: infosite logout")
			return 2
		}
		return doLogout(app)

	case "set":
		if len(a) == 0 {
			ui.Fail("usage: infosite set <message...>")
			return 2
		}
		return doSet(ctx, app, strings.Join(a, " "))
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	ui.Println(`infosite - Info Site admin client

Usage:
  infosite [flags] <subcommand> [args]

Subcommands:
  tui                          Interactive view and editor
  show                         Print the welcome message
  status                       Show whether the stored admin session is valid
  login [--password-stdin]     Log in as admin (prompts for the password)
  logout                       Forget the stored token (local only)
  set <message...>             Replace the welcome message (admin)

Flags:
  -a <url>        backend origin (default http://localhost:3512)
  -s file|sqlite  token store
  -t <duration>   request timeout
  -d <dir>        data directory (default ~/.infosite)
  -c <file>       JSON config file
  -theme <name>   classic | neon | mono

Examples:
  infosite show
  infosite login
  infosite set "Closed on Monday"`)
}

// -------------- subcommand impls ----------------

func doTUI(ctx context.Context, app *App) int {
	if err := runTUI(ctx, app.Session); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doShow(ctx context.Context, app *App) int {
	app.Session.Initialize(ctx)
	st := app.Session.Snapshot()

	lines := []string{ui.Badge(st.Authenticated), ""}
	text := st.Welcome.Text
	if strings.TrimSpace(text) == "" {
		text = ui.C(ui.Current().Muted, "(no welcome message)")
	}
	lines = append(lines, ui.Wrap(text, 72)...)
	ui.Panel(st.Title, lines)
	return 0
}

func doStatus(ctx context.Context, app *App) int {
	ti, err := app.Tokens.Get(ctx)
	if err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	app.Session.Initialize(ctx)
	st := app.Session.Snapshot()

	ui.Println("backend: " + app.Config.BackendURL)
	if ti == nil {
		ui.Println(ui.C(ui.Current().Muted, "not logged in"))
		ui.Println("Run: infosite login")
		return 0
	}
	ui.Println("token source: " + ti.Source)
	if st.Authenticated {
		ui.OK("admin session is valid")
		return 0
	}
	if after, _ := app.Tokens.Get(ctx); after == nil {
		ui.Warn("stored token was rejected and has been removed")
	} else {
		ui.Warn("could not confirm the stored session")
	}
	return 1
}

func doLogin(ctx context.Context, app *App, stdin io.Reader, fromStdin bool) int {
	password, err := readAdminPassword(stdin, fromStdin)
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}

	app.Session.SetPassword(password)
	app.Session.Login(ctx, func() { ui.OK("logged in") })

	if st := app.Session.Snapshot(); !st.Authenticated {
		ui.Fail(st.Status.Text)
		return 1
	}
	return 0
}

func readAdminPassword(stdin io.Reader, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}
	fmt.Fprint(os.Stderr, "Admin password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func doLogout(app *App) int {
	app.Session.Logout()
	if ti, _ := app.Tokens.Get(context.Background()); ti != nil && ti.Source == "env" {
		ui.OK("logged out (token from INFOSITE_TOKEN is still set in the environment)")
		return 0
	}
	ui.OK("logged out")
	return 0
}

func doSet(ctx context.Context, app *App, text string) int {
	app.Session.Initialize(ctx)
	app.Session.BeginEditingWelcomeMessage()
	app.Session.SetWelcomeMessageDraft(text)
	app.Session.SaveWelcomeMessage(ctx)

	st := app.Session.Snapshot()
	if !st.Status.Empty() {
		ui.Fail(st.Status.Text)
		return 1
	}
	ui.OK("welcome message saved")
	return 0
}
