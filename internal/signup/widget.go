package signup

import (
	"context"
	"strings"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Notices shown by the widget itself. They are not part of State.
const (
	NoticeEmptyEmail = "Veuillez saisir votre adresse email"
	NoticeSucceeded  = "Inscription réussie !"
	NoticeFallback   = "Une erreur est survenue"
)

const submittingLabel = "Inscription..."

// Options configure the widget text. Empty fields fall back to the defaults.
type Options struct {
	Title       string
	Description string
	Placeholder string
	ButtonText  string
}

func DefaultOptions() Options {
	return Options{
		Title:       "Soyez les premiers informés",
		Description: "Inscrivez-vous à notre newsletter pour être notifié du lancement de notre blog",
		Placeholder: "Votre adresse email",
		ButtonText:  "S'inscrire",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Description == "" {
		o.Description = d.Description
	}
	if o.Placeholder == "" {
		o.Placeholder = d.Placeholder
	}
	if o.ButtonText == "" {
		o.ButtonText = d.ButtonText
	}
	return o
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F97316"))
	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#F97316")).
			Padding(0, 2)
	buttonDisabledStyle = buttonStyle.
				Background(lipgloss.Color("#FDBA74"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FED7AA")).
			Padding(1, 2)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// resultMsg carries the outcome of the subscription request back into Update.
type resultMsg struct {
	resp *domain.SubscribeResponse
	err  error
}

// Widget is the signup form as a bubbletea model.
type Widget struct {
	ctx    context.Context
	client Subscriber
	opts   Options

	input  textinput.Model
	state  State
	notice string
	failed bool
}

func NewWidget(ctx context.Context, c Subscriber, opts Options) Widget {
	opts = opts.withDefaults()

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.CharLimit = 320
	ti.Width = 40
	ti.Focus()

	return Widget{
		ctx:    ctx,
		client: c,
		opts:   opts,
		input:  ti,
	}
}

func (w Widget) State() State { return w.state }

func (w Widget) Notice() string { return w.notice }

func (w Widget) Value() string { return w.input.Value() }

func (w Widget) Init() tea.Cmd {
	return textinput.Blink
}

func (w Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return w, tea.Quit
		case tea.KeyEnter:
			return w.submit()
		}
	case resultMsg:
		return w.finish(msg)
	}

	if w.state.IsLoading() {
		return w, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w Widget) submit() (Widget, tea.Cmd) {
	// Submit is disabled while a request is outstanding.
	if w.state.IsLoading() {
		return w, nil
	}

	email := w.input.Value()
	if strings.TrimSpace(email) == "" {
		w.notice, w.failed = NoticeEmptyEmail, true
		return w, nil
	}

	next, ok := Start(w.state, email)
	w.state = next
	if !ok {
		w.notice, w.failed = fallback(next.Error), true
		return w, nil
	}

	w.notice, w.failed = "", false
	w.input.Blur()
	return w, w.request(email)
}

func (w Widget) request(email string) tea.Cmd {
	ctx, c := w.ctx, w.client
	return func() tea.Msg {
		resp, err := c.Subscribe(ctx, email)
		return resultMsg{resp: resp, err: err}
	}
}

func (w Widget) finish(msg resultMsg) (Widget, tea.Cmd) {
	next, ok := Complete(w.state, msg.resp, msg.err)
	w.state = next
	if ok {
		w.input.SetValue("")
		w.notice, w.failed = NoticeSucceeded, false
	} else {
		w.notice, w.failed = fallback(next.Error), true
	}
	return w, w.input.Focus()
}

func fallback(msg string) string {
	if msg == "" {
		return NoticeFallback
	}
	return msg
}

func (w Widget) View() string {
	button := buttonStyle.Render(w.opts.ButtonText)
	if w.state.IsLoading() {
		button = buttonDisabledStyle.Render(submittingLabel)
	}

	lines := []string{
		titleStyle.Render(w.opts.Title),
		descStyle.Render(w.opts.Description),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, w.input.View(), "  ", button),
	}

	if w.state.Error != "" {
		lines = append(lines, errorStyle.Render(w.state.Error))
	}
	if w.state.Success != "" {
		lines = append(lines, successStyle.Render(w.state.Success))
	}
	if w.notice != "" && w.notice != w.state.Error {
		style := successStyle
		if w.failed {
			style = errorStyle
		}
		lines = append(lines, style.Render(w.notice))
	}

	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	hint := hintStyle.Render("entrée: s'inscrire • échap: quitter")
	return lipgloss.JoinVertical(lipgloss.Left, box, hint) + "\n"
}
