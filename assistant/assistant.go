// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/election-results/models"
)

var (
	// ErrNotConfigured is returned when no generator is available, usually
	// because no API key was configured.
	ErrNotConfigured = errors.New("assistant is not configured")
	// ErrEmptyMessage is returned for a blank question.
	ErrEmptyMessage = errors.New("message is required")
	// ErrEmptyReply is returned when the model produced no text.
	ErrEmptyReply = errors.New("model returned an empty reply")
)

// Apology is shown to the user when the model cannot be reached.
const Apology = "I apologize, but I'm having trouble connecting right now. Please try again in a moment. I'm here to help with any questions about South African electronic elections."

// ContextMessages is the number of earlier messages included in a prompt.
const ContextMessages = 4

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Assistant answers election questions through a Generator.
type Assistant struct {
	gen Generator
}

// New returns an assistant backed by gen. A nil gen yields an assistant
// that reports ErrNotConfigured.
func New(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Configured reports whether a generator is available.
func (a *Assistant) Configured() bool {
	return a != nil && a.gen != nil
}

// Reply answers req.Message in the context of the recent history.
func (a *Assistant) Reply(ctx context.Context, req models.ChatRequest) (string, error) {
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return "", ErrEmptyMessage
	}
	if !a.Configured() {
		return "", ErrNotConfigured
	}

	reply, err := a.gen.Generate(ctx, BuildPrompt(req.History, question))
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

const preamble = `You are an interactive AI assistant specialized exclusively in South African elections with a focus on ELECTRONIC VOTING systems.

IMPORTANT CONTEXT ABOUT THE VOTING SYSTEM:
- This is an ELECTRONIC VOTING system, NOT traditional paper ballots
- Voters register with fingerprint biometrics for security
- Voting happens through a digital interface where voters select candidates electronically
- Votes are counted automatically and results are generated in real-time
- The system ensures secure, transparent, and efficient elections
`

const guidelines = `RESPONSE GUIDELINES:
1. Maintain conversation flow naturally - if user says "yes", "tell me more", "continue", etc., continue from previous context
2. Be interactive and engaging like a human conversation
3. Focus ONLY on South African elections, political parties, voting procedures, recent trends, and historical data
4. Always reference ELECTRONIC VOTING when discussing the voting process
5. Provide comprehensive information about parties, candidates, election procedures, and current political landscape
6. For voting process, explain the electronic system: fingerprint registration → digital ballot → electronic vote casting → automated counting
7. Include recent trends in South African parliament and party developments
8. If asked about non-election topics, politely redirect to South African election topics
9. Be conversational and avoid sounding like a scripted response
`

// BuildPrompt renders the system preamble, the last ContextMessages
// messages of history and the question into a single prompt.
func BuildPrompt(history []models.ChatMessage, question string) string {
	var b strings.Builder

	b.WriteString(preamble)
	b.WriteString("\nCONVERSATION CONTEXT (last few messages):\n")
	b.WriteString(conversationContext(history))
	b.WriteString("\n\n")
	b.WriteString(guidelines)
	b.WriteString("\nCurrent user question: \"" + question + "\"\n\n")
	b.WriteString("Provide a helpful, engaging response that continues the conversation naturally.")

	return b.String()
}

func conversationContext(history []models.ChatMessage) string {
	if len(history) > ContextMessages {
		history = history[len(history)-ContextMessages:]
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "Assistant"
		if msg.Type == models.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
