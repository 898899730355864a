// Package dashboard renders the admin view of active subscribers and
// exports it as CSV.
package dashboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	NoticeLoadFailed = "Erreur lors du chargement des abonnés"
	NoticeConnection = "Erreur de connexion"
	NoticeEmpty      = "Aucun abonné pour le moment"
)

var ErrLoad = errors.New("dashboard: listing failed")

var csvHeader = []string{"Email", "Date d'inscription"}

// Lister fetches the active subscriber listing.
type Lister interface {
	ListSubscribers(ctx context.Context) (*domain.ListSubscribersResponse, error)
}

type Dashboard struct {
	Subscribers []domain.SubscriberSummary
	Total       int
	Notice      string

	loc *time.Location
}

// New returns an empty dashboard that formats dates in loc (UTC if nil).
func New(loc *time.Location) *Dashboard {
	if loc == nil {
		loc = time.UTC
	}
	return &Dashboard{
		Subscribers: []domain.SubscriberSummary{},
		loc:         loc,
	}
}

// Load fetches the listing. On failure the previous data is kept and Notice
// is set.
func (d *Dashboard) Load(ctx context.Context, l Lister) error {
	d.Notice = ""

	resp, err := l.ListSubscribers(ctx)
	if err != nil {
		d.Notice = NoticeConnection
		return fmt.Errorf("loading subscribers: %w", err)
	}
	if !resp.Success {
		d.Notice = NoticeLoadFailed
		return fmt.Errorf("%w: %s", ErrLoad, resp.Message)
	}

	d.Subscribers = resp.Data
	if d.Subscribers == nil {
		d.Subscribers = []domain.SubscriberSummary{}
	}
	d.Total = resp.Count
	return nil
}

func (d *Dashboard) Active() int {
	return len(d.Subscribers)
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	statStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FED7AA")).
			Padding(0, 2)
	headerCell = lipgloss.NewStyle().Bold(true).PaddingRight(3)
	cell       = lipgloss.NewStyle().PaddingRight(3)
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#166534")).
			Background(lipgloss.Color("#DCFCE7")).
			Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Render writes the stats and the subscriber table.
func (d *Dashboard) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Gestion Newsletter") + "\n")
	b.WriteString(mutedStyle.Render("Gérez vos abonnés à la newsletter") + "\n\n")

	if d.Notice != "" {
		b.WriteString(noticeStyle.Render(d.Notice) + "\n\n")
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render("Total Abonnés\n"+strconv.Itoa(d.Total)),
		" ",
		statStyle.Render("Actifs\n"+strconv.Itoa(d.Active())),
	)
	b.WriteString(stats + "\n\n")

	b.WriteString(headingStyle.Render("Liste des Abonnés"))
	b.WriteString("  " + mutedStyle.Render(fmt.Sprintf("%d abonnés", d.Active())) + "\n")

	if len(d.Subscribers) == 0 {
		b.WriteString(mutedStyle.Render(NoticeEmpty) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	emailWidth := lipgloss.Width("Email")
	dateWidth := lipgloss.Width("Date d'inscription")
	dates := make([]string, len(d.Subscribers))
	for i, s := range d.Subscribers {
		dates[i] = LongDate(s.CreatedAt.In(d.loc))
		emailWidth = max(emailWidth, lipgloss.Width(s.Email))
		dateWidth = max(dateWidth, lipgloss.Width(dates[i]))
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerCell.Width(emailWidth+3).Render("Email"),
		headerCell.Width(dateWidth+3).Render("Date d'inscription"),
		headerCell.Render("Statut"),
	) + "\n")

	for i, s := range d.Subscribers {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			cell.Width(emailWidth+3).Render(s.Email),
			cell.Width(dateWidth+3).Render(dates[i]),
			badgeStyle.Render("Actif"),
		) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCSV writes a header row followed by one row per subscriber with the
// date formatted DD/MM/YYYY.
func (d *Dashboard) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range d.Subscribers {
		if err := cw.Write([]string{s.Email, s.CreatedAt.In(d.loc).Format("02/01/2006")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName names the export after the UTC calendar date of now.
func ExportFileName(now time.Time) string {
	return "newsletter-subscribers-" + now.UTC().Format("2006-01-02") + ".csv"
}

// Export writes the CSV into dir and returns the file path.
func (d *Dashboard) Export(dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, ExportFileName(now))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	return path, nil
}
