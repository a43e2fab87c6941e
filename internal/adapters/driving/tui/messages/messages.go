// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// AnswerReceived carries a completed query response back to the model.
type AnswerReceived struct {
	Response *domain.QueryResponse
	Err      error
}

// DocumentsLoaded carries the document list back to the model.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentDeleted reports the outcome of a delete request.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewDocuments lists the ingested documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
