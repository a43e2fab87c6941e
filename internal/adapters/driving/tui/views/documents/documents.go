// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

// View represents the document list view.
type View struct {
	styles    *styles.Styles
	ingestion driving.IngestionService
	ctx       context.Context

	documents []domain.Document
	selected  int
	width     int
	height    int
	ready     bool
	loading   bool
	err       error
	notice    string
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, ingestion driving.IngestionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:    s,
		ingestion: ingestion,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init triggers the initial document load.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = 0
		}
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = "Deleted " + msg.DocumentID
		return v, v.load()
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
		}
		return v, nil

	case "r":
		v.notice = ""
		return v, v.load()

	case "d":
		if len(v.documents) == 0 || v.ingestion == nil {
			return v, nil
		}
		doc := v.documents[v.selected]
		return v, v.delete(doc.ID)
	}

	return v, nil
}

// load fetches the document list.
func (v *View) load() tea.Cmd {
	if v.ingestion == nil {
		return func() tea.Msg {
			return messages.DocumentsLoaded{Documents: nil}
		}
	}
	v.loading = true
	return func() tea.Msg {
		docs, err := v.ingestion.List(v.ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// delete removes a document and reports the outcome.
func (v *View) delete(documentID string) tea.Cmd {
	return func() tea.Msg {
		err := v.ingestion.Remove(v.ctx, documentID)
		return messages.DocumentDeleted{DocumentID: documentID, Err: err}
	}
}

// View renders the document list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents ingested."))
	default:
		for i, doc := range v.documents {
			cursor := "  "
			line := fmt.Sprintf("%s  %d chunks  roles: %s",
				doc.SourceName, doc.ChunkCount, rolesLabel(doc.AllowedRoles))

			if i == v.selected {
				cursor = "> "
				b.WriteString(cursor + v.styles.Selected.Render(line))
			} else {
				b.WriteString(cursor + v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
	}

	b.WriteString("\n\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("[j/k] Navigate  [r] Refresh  [d] Delete  [esc] Back")
	b.WriteString(footer)

	return b.String()
}

// rolesLabel formats the allowed roles for display.
func rolesLabel(roles []domain.Role) string {
	if len(roles) == 0 {
		return "all"
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the currently loaded documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
