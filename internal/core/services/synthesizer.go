package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// greetings are the exact tokens that short-circuit retrieval.
var greetings = map[string]bool{
	"hello": true,
	"hi":    true,
	"hey":   true,
}

// excerptLength is how much combined context the templates quote.
const excerptLength = 300

// greetingAnswer introduces the assistant's capabilities. Returned
// without any retrieval.
const greetingAnswer = `Hello! I'm the company document assistant. I can help you find information from our internal documents.

I can answer questions about:
- Company policies and procedures
- Benefits and HR information
- IT support and technical help
- Remote work guidelines
- Security policies

What would you like to know?`

// IsGreeting reports whether the normalised question is a known
// greeting token. The orchestrator checks this before retrieval so a
// greeting never costs an embedding call.
func IsGreeting(question string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(question))]
}

// groundedAnswerPrompt is the built-in prompt contract for LLM
// synthesis. A configured PromptStore may override it.
const groundedAnswerPrompt = `You are a helpful company document assistant. Answer the user's question based ONLY on the provided document context.

USER QUESTION: %s
USER ROLE: %s

RELEVANT DOCUMENT CONTEXT:
%s
INSTRUCTIONS:
1. Answer the question using only the provided context
2. If the context doesn't contain the answer, say "I don't have enough information"
3. Be helpful, professional, and concise
4. Mention the source documents when relevant
5. If multiple documents apply, synthesise the information

ANSWER:`

// Synthesizer turns retrieved chunks and a question into an answer.
//
// The default strategy is a template classifier over the question
// text. When an LLM service is configured, grounded synthesis is
// delegated to it under a prompt contract that forbids facts absent
// from the supplied context; on LLM failure the template strategy is
// used instead, so synthesis itself never fails.
type Synthesizer struct {
	llmService  driven.LLMService // optional, nil disables the generative path
	promptStore driven.PromptStore
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithPromptStore sources the grounded-answer prompt from a prompt
// store instead of the built-in template.
func WithPromptStore(store driven.PromptStore) SynthesizerOption {
	return func(s *Synthesizer) {
		s.promptStore = store
	}
}

// NewSynthesizer creates a synthesizer. llmService may be nil.
func NewSynthesizer(llmService driven.LLMService, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{llmService: llmService}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize produces the answer text for a question given its
// retrieved context, in ranking order. State-free; three branches:
// greeting, no-context fallback, grounded synthesis.
func (s *Synthesizer) Synthesize(
	ctx context.Context, question string, results []domain.RetrievalResult, role domain.Role,
) string {
	if IsGreeting(question) {
		return greetingAnswer
	}

	if len(results) == 0 {
		return noContextAnswer(question)
	}

	if s.llmService != nil {
		answer, err := s.generateGrounded(ctx, question, results, role)
		if err == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer)
		}
		logger.Warn("LLM synthesis failed, using template strategy: %v", err)
	}

	return templateAnswer(question, results)
}

// noContextAnswer is the fixed fallback when nothing relevant was
// retrieved. It names next steps and never fabricates facts.
func noContextAnswer(question string) string {
	return fmt.Sprintf(`I couldn't find specific information about %q in our company documents.

However, I can suggest:
- Check the Employee Handbook for general policies
- Contact HR for questions about benefits or policies
- Ask me about remote work, security, or IT support for common topics

Would you like me to help you with anything else?`, strings.TrimSpace(question))
}

// templateAnswer classifies the question by substring and frames the
// combined context with an appropriate template. Every branch quotes
// only retrieved text, so the answer never asserts a fact absent from
// the context.
func templateAnswer(question string, results []domain.RetrievalResult) string {
	excerpt := contextExcerpt(results)
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "responsib"):
		return fmt.Sprintf(`According to our company documents: %s

These are the responsibilities outlined in our company policies. Please make sure to follow these guidelines.`, excerpt)

	case strings.Contains(q, "security") || strings.Contains(q, "virus") || strings.Contains(q, "malware"):
		return fmt.Sprintf(`Based on our security documentation: %s

This is part of the company's security policy to protect our systems and data. Please follow these security guidelines carefully.`, excerpt)

	case strings.Contains(q, "content") || strings.Contains(q, "post") || strings.Contains(q, "upload"):
		return fmt.Sprintf(`According to our content policies: %s

These guidelines apply to any content you post or upload to our systems. Please ensure compliance with these policies.`, excerpt)

	case strings.Contains(q, "what") && strings.Contains(q, "about"):
		return fmt.Sprintf(`Based on our company documents: %s

This information comes from our internal documentation. The documents contain policies, guidelines and procedures you should be aware of.`, excerpt)

	default:
		return fmt.Sprintf(`Based on the company documents I found: %s

This information comes from our internal documentation. For more details, please refer to the source documents listed below or ask a more specific question.`, excerpt)
	}
}

// contextExcerpt joins chunk texts in ranking order and truncates to
// the excerpt budget at a word boundary.
func contextExcerpt(results []domain.RetrievalResult) string {
	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
	}
	joined := strings.Join(texts, " ")

	if len(joined) <= excerptLength {
		return joined
	}
	cut := excerptLength
	if idx := strings.LastIndex(joined[:excerptLength], " "); idx > 0 {
		cut = idx
	}
	return joined[:cut] + "..."
}

// generateGrounded asks the LLM for an answer constrained to the
// retrieved context. The prompt contract mirrors the template
// guarantee: answer only from context, admit insufficiency explicitly.
func (s *Synthesizer) generateGrounded(
	ctx context.Context, question string, results []domain.RetrievalResult, role domain.Role,
) (string, error) {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "Document %d (%s):\n%s\n\n", i+1, r.Chunk.SourceName, r.Chunk.Text)
	}

	template := groundedAnswerPrompt
	if s.promptStore != nil {
		if custom, err := s.promptStore.Load(driven.PromptGroundedAnswer); err == nil && custom != "" {
			template = custom
		}
	}

	prompt := fmt.Sprintf(template, question, role, b.String())

	return s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.2,
	})
}
