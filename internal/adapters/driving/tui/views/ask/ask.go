// Package ask provides the question-and-answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// View represents the ask view with input, answer panel, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar

	queryService driving.QueryService
	ctx          context.Context

	role     domain.Role
	response *domain.QueryResponse

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = answer mode (reading)
	asking     bool
}

// NewView creates a new ask view. Questions run as the employee role
// until toggled.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetRole(string(domain.RoleEmployee))

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		statusbar:    bar,
		queryService: queryService,
		ctx:          context.Background(),
		role:         domain.RoleEmployee,
		width:        80,
		height:       24,
		focusInput:   true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswerReceived(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.asking = false
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Tab toggles the querying role in any mode
	if msg.Type == tea.KeyTab {
		v.toggleRole()
		return v, nil
	}

	// Enter in input mode submits the question
	if msg.Type == tea.KeyEnter && v.focusInput {
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.asking {
			return v, nil
		}
		v.asking = true
		v.focusInput = false
		v.input.Blur()
		v.statusbar.SetState(status.StateThinking)
		return v, v.performAsk(question)
	}

	// Input mode: all keys go to input
	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	// Answer mode
	if msg.String() == "n" {
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
		return v, nil
	}

	return v, nil
}

// toggleRole switches between the employee and admin roles.
func (v *View) toggleRole() {
	if v.role == domain.RoleAdmin {
		v.role = domain.RoleEmployee
	} else {
		v.role = domain.RoleAdmin
	}
	v.statusbar.SetRole(string(v.role))
}

// performAsk runs the query and delivers the answer as a message.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		resp, err := v.queryService.Ask(v.ctx, question, v.role)
		return messages.AnswerReceived{Response: resp, Err: err}
	}
}

// handleAnswerReceived processes a completed query.
func (v *View) handleAnswerReceived(msg messages.AnswerReceived) {
	v.asking = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.response = msg.Response
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetSourceCount(len(msg.Response.Sources))
	v.focusInput = false
	v.input.Blur()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := v.styles.Title.Render("Docqa")
	sections = append(sections, header, "")

	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.response != nil {
		sections = append(sections, v.renderAnswer())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAnswer renders the answer panel with its cited sources.
func (v *View) renderAnswer() string {
	var b strings.Builder

	b.WriteString(v.styles.Normal.Render(v.response.Answer))

	if len(v.response.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Subtitle.Render("Sources"))
		for _, src := range v.response.Sources {
			b.WriteString("\n")
			b.WriteString(v.styles.Normal.Render(
				fmt.Sprintf("  %s (%d%%)", src.Title, src.Relevance)))
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render("    " + src.Snippet))
		}
	}

	panelWidth := v.width - 4
	if panelWidth < 20 {
		panelWidth = 20
	}

	return v.styles.Answer.Width(panelWidth).Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current question text.
func (v *View) Question() string {
	return v.input.Value()
}

// Role returns the current querying role.
func (v *View) Role() domain.Role {
	return v.role
}

// Response returns the last query response.
func (v *View) Response() *domain.QueryResponse {
	return v.response
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.response = nil
	v.err = nil
	v.asking = false
	v.statusbar.Clear()
}
