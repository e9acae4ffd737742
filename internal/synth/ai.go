// Package synth turns commit history into a schedule proposal, either
// through a text generation model or a deterministic fallback.
package synth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gorewood/stint/internal/github"
	"github.com/gorewood/stint/internal/llm"
	"github.com/gorewood/stint/internal/schedule"
)

const (
	defaultAttempts = 3
	initialBackoff  = 2 * time.Second
)

// Generator is the text generation collaborator.
type Generator interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// AIStrategy produces a schedule via a generation model, retrying
// transient failures with exponential backoff.
type AIStrategy struct {
	gen      Generator
	attempts int

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewAIStrategy wraps a generator with the default retry policy.
func NewAIStrategy(gen Generator) *AIStrategy {
	return &AIStrategy{
		gen:      gen,
		attempts: defaultAttempts,
		sleep:    time.Sleep,
	}
}

// Generate asks the model for a schedule covering the given days. It
// returns the raw CSV text; an empty response after the last attempt is
// a failure, not a success with no blocks.
func (s *AIStrategy) Generate(ctx context.Context, days []time.Time, policy schedule.Policy, commits []github.Commit) (string, error) {
	prompt := BuildPrompt(days, policy, commits)
	req := llm.Request{
		System: systemPrompt,
		Prompt: prompt,
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			s.sleep(backoff)
			backoff *= 2
		}

		resp, err := s.gen.Complete(ctx, req)
		if err != nil {
			lastErr = err
			var genErr *llm.GenerationError
			if errors.As(err, &genErr) && genErr.Retryable {
				continue
			}
			return "", err
		}

		if text := strings.TrimSpace(resp.Content); text != "" {
			return stripCodeFence(text), nil
		}
		lastErr = errors.New("model returned an empty schedule")
	}

	return "", lastErr
}

// stripCodeFence removes a markdown fence if the model wrapped the CSV
// in one despite instructions.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
