// Command newsletter is the client side of the newsletter service: the
// signup form, the admin listing and CSV export, a live event feed and an
// operator unsubscribe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Priya8975/newsletter-service/internal/client"
	"github.com/Priya8975/newsletter-service/internal/config"
	"github.com/Priya8975/newsletter-service/internal/dashboard"
	"github.com/Priya8975/newsletter-service/internal/newsletter"
	"github.com/Priya8975/newsletter-service/internal/signup"
	"github.com/Priya8975/newsletter-service/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

const usage = `usage: newsletter <command> [flags]

commands:
  signup       subscribe an address (interactive form without -email)
  admin        list active subscribers
  export       write active subscribers to a CSV file
  watch        stream subscription events from the server
  deactivate   unsubscribe an address directly in the database
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	cfg, err := config.LoadCLI()
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup":
		return runSignup(ctx, cfg, rest, out)
	case "admin":
		return runAdmin(ctx, cfg, rest, out)
	case "export":
		return runExport(ctx, cfg, rest, out)
	case "watch":
		return runWatch(ctx, cfg, rest, out)
	case "deactivate":
		return runDeactivate(ctx, cfg, rest, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runSignup(ctx context.Context, cfg *config.CLIConfig, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	apiURL := fs.String("api", cfg.APIURL, "newsletter API base URL")
	email := fs.String("email", "", "address to subscribe; opens the form when empty")
	title := fs.String("title", "", "form title")
	description := fs.String("description", "", "form description")
	placeholder := fs.String("placeholder", "", "input placeholder")
	button := fs.String("button", "", "button label")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := client.New(*apiURL)

	if *email != "" {
		state, ok := signup.NewHook(c).Subscribe(ctx, signup.State{}, *email)
		if !ok {
			return errors.New(state.Error)
		}
		fmt.Fprintln(out, state.Success)
		return nil
	}

	widget := signup.NewWidget(ctx, c, signup.Options{
		Title:       *title,
		Description: *description,
		Placeholder: *placeholder,
		ButtonText:  *button,
	})
	_, err := tea.NewProgram(widget, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func loadDashboard(ctx context.Context, cfg *config.CLIConfig, apiURL string) (*dashboard.Dashboard, error) {
	d := dashboard.New(cfg.Location)
	if err := d.Load(ctx, client.New(apiURL)); err != nil {
		return nil, fmt.Errorf("%s: %w", d.Notice, err)
	}
	return d, nil
}

func runAdmin(ctx context.Context, cfg *config.CLIConfig, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	apiURL := fs.String("api", cfg.APIURL, "newsletter API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := loadDashboard(ctx, cfg, *apiURL)
	if err != nil {
		return err
	}
	return d.Render(out)
}

func runExport(ctx context.Context, cfg *config.CLIConfig, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	apiURL := fs.String("api", cfg.APIURL, "newsletter API base URL")
	dir := fs.String("dir", cfg.ExportDir, "directory to write the CSV into")
	stdout := fs.Bool("stdout", false, "write the CSV to stdout instead of a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := loadDashboard(ctx, cfg, *apiURL)
	if err != nil {
		return err
	}

	if *stdout {
		return d.WriteCSV(out)
	}

	path, err := d.Export(*dir, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d abonnés exportés vers %s\n", d.Active(), path)
	return nil
}

func runDeactivate(ctx context.Context, cfg *config.CLIConfig, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("deactivate", flag.ContinueOnError)
	email := fs.String("email", "", "address to unsubscribe")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pgStore.Close()

	var opts []newsletter.Option
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedis(ctx, cfg.RedisURL, 0)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		opts = append(opts, newsletter.WithCache(redisStore))
	}

	res, err := newsletter.NewService(pgStore, logger, opts...).Unsubscribe(ctx, *email)
	if err != nil {
		var nerr *newsletter.Error
		if errors.As(err, &nerr) {
			return errors.New(nerr.Message)
		}
		return err
	}
	fmt.Fprintln(out, res.Message)
	return nil
}
