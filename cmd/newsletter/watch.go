package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Priya8975/newsletter-service/internal/config"
	"github.com/Priya8975/newsletter-service/internal/dashboard"
	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

var (
	createdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	reactivatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	deactivatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	timeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// wsURL maps the API base URL to its websocket feed.
func wsURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("parsing API URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported API URL scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""
	return u.String(), nil
}

func formatEvent(ev domain.SubscriptionEvent, loc *time.Location) string {
	var label string
	switch ev.Type {
	case domain.EventSubscriberCreated:
		label = createdStyle.Render("inscription")
	case domain.EventSubscriberReactivated:
		label = reactivatedStyle.Render("réactivation")
	case domain.EventSubscriberDeactivated:
		label = deactivatedStyle.Render("désinscription")
	default:
		label = ev.Type
	}
	return fmt.Sprintf("%s  %s  %s", timeStyle.Render(dashboard.LongDate(ev.Timestamp.In(loc))), label, ev.Email)
}

func runWatch(ctx context.Context, cfg *config.CLIConfig, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	apiURL := fs.String("api", cfg.APIURL, "newsletter API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target, err := wsURL(*apiURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", target, err)
	}
	defer conn.Close()

	// Unblock ReadMessage on cancel.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	fmt.Fprintf(out, "en écoute sur %s\n", target)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("reading event: %w", err)
		}

		var ev domain.SubscriptionEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return errors.New("malformed event from server")
		}
		fmt.Fprintln(out, formatEvent(ev, cfg.Location))
	}
}
