package llm

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ModelInfo describes a generation-capable model reported by the provider.
type ModelInfo struct {
	Name        string
	DisplayName string
}

// fallbackModels is tried in order when the model list cannot be fetched
// or ranked. Ordered by preference.
var fallbackModels = []string{
	"gemini-2.0-flash-thinking-exp",
	"gemini-2.0-flash-exp",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-pro",
}

// FallbackModels returns the static preference chain used when dynamic
// model discovery is unavailable.
func FallbackModels() []string {
	return append([]string(nil), fallbackModels...)
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// ScoreModel ranks a model name for automatic selection. Thinking
// variants dominate, then version, then model tier. Higher is better.
func ScoreModel(name string) int {
	lower := strings.ToLower(name)
	score := 0

	// Thinking models reason through the schedule constraints better
	// than their base variants, so they always win.
	if strings.Contains(lower, "thinking") {
		score += 10000
	}

	score += versionScore(lower)

	switch {
	case strings.Contains(lower, "ultra"):
		score += 500
	case strings.Contains(lower, "pro"):
		score += 400
	case strings.Contains(lower, "advanced"):
		score += 350
	case strings.Contains(lower, "flash"):
		score += 300
	}

	if strings.Contains(lower, "exp") {
		score += 200
	}

	return score
}

// versionScore extracts a major.minor version and scores it so newer
// releases outrank older ones without code changes.
func versionScore(name string) int {
	match := versionPattern.FindStringSubmatch(name)
	if match == nil {
		return 0
	}

	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	score := major*1000 + minor*100

	switch {
	case major >= 4:
		score += 500
	case major >= 3:
		score += 200
	}

	return score
}

// RankModels sorts models best-first by ScoreModel. Ties keep the
// provider's listing order.
func RankModels(models []ModelInfo) []ModelInfo {
	ranked := append([]ModelInfo(nil), models...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ScoreModel(ranked[i].Name) > ScoreModel(ranked[j].Name)
	})
	return ranked
}

// ResolveModel picks the best available model when the client was
// configured with "auto" or no model. Discovery failures fall back to
// the static chain's first entry rather than erroring; generation will
// surface a real failure if that model is gone too.
func (c *Client) ResolveModel(ctx context.Context) string {
	if c.model != "" && c.model != "auto" {
		return c.model
	}

	if c.provider == ProviderLocal {
		c.model = "default"
		return c.model
	}

	models, err := c.ListModels(ctx)
	if err != nil || len(models) == 0 {
		c.model = fallbackModels[0]
		return c.model
	}

	c.model = RankModels(models)[0].Name
	return c.model
}
