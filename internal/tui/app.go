// Package tui renders a journey session as an interactive terminal screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"journey-tracker/internal/journey"
	"journey-tracker/internal/session"
)

const (
	defaultWidth = 60
	// Lines used by everything except the stop list.
	chromeHeight = 11
	minListRows  = 3
)

// RefreshMsg asks the screen to re-read the session, e.g. after a command
// arrived from a remote display.
type RefreshMsg struct{}

// App is the bubbletea model for the journey screen.
type App struct {
	ctx    context.Context
	sess   *session.Session
	snap   journey.Snapshot
	keys   keyMap
	help   help.Model
	bar    progress.Model
	styles styles

	width    int
	height   int
	offset   int // first visible stop row
	err      error
	quitting bool
}

// NewApp creates a new App bound to sess.
func NewApp(ctx context.Context, sess *session.Session) *App {
	bar := progress.New(
		progress.WithSolidFill(colorDarkOrange),
		progress.WithoutPercentage(),
	)
	a := &App{
		ctx:    ctx,
		sess:   sess,
		snap:   sess.Snapshot(),
		keys:   defaultKeyMap(),
		help:   help.New(),
		bar:    bar,
		styles: defaultStyles(),
		width:  defaultWidth,
	}
	a.resize(defaultWidth, 0)
	return a
}

// NewProgram creates the tea.Program for sess and keeps the screen in sync
// with commands applied from elsewhere.
func NewProgram(ctx context.Context, sess *session.Session) (*tea.Program, *App) {
	app := NewApp(ctx, sess)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	sess.OnChange(func(journey.Snapshot) {
		// Send blocks until the event loop reads it; the loop may be the caller.
		go p.Send(RefreshMsg{})
	})
	return p, app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case RefreshMsg:
		a.snap = a.sess.Snapshot()
		a.followCurrent()
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		case key.Matches(msg, a.keys.Advance):
			a.apply(session.Advance)
		case key.Matches(msg, a.keys.ToggleUnit):
			a.apply(session.ToggleUnit)
		case key.Matches(msg, a.keys.Restart):
			a.apply(session.Restart)
		case key.Matches(msg, a.keys.Up):
			a.scroll(-1)
		case key.Matches(msg, a.keys.Down):
			a.scroll(1)
		}
	}
	return a, nil
}

func (a *App) apply(cmd session.Command) {
	snap, err := a.sess.Apply(a.ctx, cmd)
	a.err = err
	if err != nil {
		return
	}
	a.snap = snap
	a.followCurrent()
}

func (a *App) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	a.width = width
	a.height = height
	a.bar.Width = max(10, width-4)
	a.help.Width = width
	a.followCurrent()
}

// listRows is the number of stop rows that fit; all of them when the
// terminal height is not known yet.
func (a *App) listRows() int {
	n := len(a.snap.Stops)
	if a.height <= 0 {
		return n
	}
	return min(n, max(minListRows, a.height-chromeHeight))
}

func (a *App) scroll(delta int) {
	a.offset += delta
	a.clampOffset()
}

// followCurrent scrolls the list so the current stop is visible.
func (a *App) followCurrent() {
	rows := a.listRows()
	cur := a.snap.CurrentIndex
	if cur < a.offset {
		a.offset = cur
	}
	if cur >= a.offset+rows {
		a.offset = cur - rows + 1
	}
	a.clampOffset()
}

func (a *App) clampOffset() {
	maxOffset := len(a.snap.Stops) - a.listRows()
	if a.offset > maxOffset {
		a.offset = maxOffset
	}
	if a.offset < 0 {
		a.offset = 0
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	sections := []string{
		a.styles.title.Render(a.snap.Journey),
		a.renderButtons(),
		"",
		a.renderStops(),
		"",
		a.renderDetails(),
	}
	if status := a.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, a.help.View(a.keys))
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (a *App) renderButtons() string {
	unit := journey.Metric
	if a.snap.Unit == journey.Imperial.String() {
		unit = journey.Imperial
	}
	buttons := []string{
		a.button("n", "Reached Stop"),
		a.button("u", journey.UnitSwitchLabel(unit)),
		a.button("r", "Restart Journey"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (a *App) button(hint, label string) string {
	return a.styles.button.Render(label) + a.styles.keyHint.Render("("+hint+") ")
}

func (a *App) renderStops() string {
	rows := a.listRows()
	end := min(len(a.snap.Stops), a.offset+rows)
	width := max(20, a.width-4)

	lines := make([]string, 0, rows+2)
	if a.offset > 0 {
		lines = append(lines, a.styles.scroll.Render(fmt.Sprintf("↑ %d more", a.offset)))
	}
	for _, st := range a.snap.Stops[a.offset:end] {
		lines = append(lines, a.renderRow(st, width))
	}
	if rest := len(a.snap.Stops) - end; rest > 0 {
		lines = append(lines, a.styles.scroll.Render(fmt.Sprintf("↓ %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRow(st journey.StopView, width int) string {
	style := a.styles.rows[st.Highlight]
	inner := width - style.GetHorizontalPadding()
	gap := max(1, inner-lipgloss.Width(st.Name)-lipgloss.Width(st.Distance))
	return style.Width(width).Render(st.Name + strings.Repeat(" ", gap) + st.Distance)
}

func (a *App) renderDetails() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.detail.Render("Total Distance Covered: "+a.snap.CoveredText),
		a.styles.detail.Render("Total Distance Left: "+a.snap.RemainingText),
		a.bar.ViewAs(a.snap.Fraction),
	)
}

func (a *App) renderStatus() string {
	switch {
	case a.err != nil:
		return a.styles.errText.Render(a.err.Error())
	case a.snap.Finished:
		return a.styles.finished.Render("Journey complete. Press r to restart.")
	}
	return ""
}

// Snapshot returns the state the screen is currently showing.
func (a *App) Snapshot() journey.Snapshot { return a.snap }
