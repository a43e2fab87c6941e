package driven

// Prompt names used with PromptStore.
const (
	// PromptGroundedAnswer is the template for LLM answer synthesis.
	// Placeholders: question, role, document context (in that order).
	PromptGroundedAnswer = "grounded_answer"
)

// PromptStore provides access to LLM prompt templates.
// Implementations load prompts from user-editable files with fallback
// to embedded defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads.
	Reload()

	// Dir returns the prompt directory path.
	Dir() string
}
