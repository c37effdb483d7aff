// ABOUTME: Shared context for CLI commands
// ABOUTME: Holds the API client, places client, config and output streams; formats errors for users
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/adda/api"
	"github.com/harperreed/adda/config"
	"github.com/harperreed/adda/forms"
	"github.com/harperreed/adda/places"
	"golang.org/x/term"
)

// App is everything a command needs. Out receives command output; logs go to
// the logger so stdout stays parseable.
type App struct {
	Client *api.Client
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer
	In     io.Reader

	// Places is created on first use from Config.PlacesAPIKey when nil.
	Places *places.Client

	reader *bufio.Reader
}

// CommandFunc is the signature shared by every subcommand.
type CommandFunc func(ctx context.Context, app *App, args []string) error

func NewApp(client *api.Client, cfg *config.Config, logger *log.Logger) *App {
	return &App{
		Client: client,
		Config: cfg,
		Logger: logger,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

func (a *App) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func (a *App) println(args ...interface{}) {
	_, _ = fmt.Fprintln(a.Out, args...)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// prompt reads one line from In after printing label.
func (a *App) prompt(label string) (string, error) {
	a.printf("%s", label)
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when In is a terminal.
func (a *App) promptSecret(label string) (string, error) {
	f, ok := a.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.prompt(label)
	}

	a.printf("%s", label)
	b, err := term.ReadPassword(int(f.Fd()))
	a.println()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (a *App) placesClient(ctx context.Context) (*places.Client, error) {
	if a.Places != nil {
		return a.Places, nil
	}
	key := ""
	if a.Config != nil {
		key = a.Config.PlacesAPIKey
	}
	c, err := places.New(ctx, key, a.Logger)
	if err != nil {
		return nil, err
	}
	a.Places = c
	return c, nil
}

// Message is the text shown to users for err: the normalized API message for
// client failures, the raw text for usage mistakes.
func Message(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var formErr *forms.Error
	if errors.As(err, &formErr) {
		return formErr.Message
	}
	return err.Error()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// repeated collects a flag given more than once.
type repeated []string

func (r *repeated) String() string {
	return strings.Join(*r, ",")
}

func (r *repeated) Set(v string) error {
	*r = append(*r, v)
	return nil
}
