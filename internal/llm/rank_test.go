package llm

import (
	"context"
	"testing"
)

func TestScoreModel_ThinkingAlwaysWins(t *testing.T) {
	thinking := ScoreModel("gemini-2.0-flash-thinking-exp")
	pro := ScoreModel("gemini-2.5-pro")

	if thinking <= pro {
		t.Errorf("thinking score %d should beat non-thinking %d", thinking, pro)
	}
}

func TestScoreModel_VersionOrdering(t *testing.T) {
	tests := []struct {
		newer, older string
	}{
		{"gemini-2.0-flash", "gemini-1.5-flash"},
		{"gemini-2.5-pro", "gemini-2.0-pro"},
		{"gemini-1.5-pro", "gemini-1.0-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.newer+" vs "+tt.older, func(t *testing.T) {
			if ScoreModel(tt.newer) <= ScoreModel(tt.older) {
				t.Errorf("ScoreModel(%q) = %d should beat ScoreModel(%q) = %d",
					tt.newer, ScoreModel(tt.newer), tt.older, ScoreModel(tt.older))
			}
		})
	}
}

func TestScoreModel_TierBonuses(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"gemini-1.5-ultra", 1500 + 500},
		{"gemini-1.5-pro", 1500 + 400},
		{"gemini-1.5-flash", 1500 + 300},
		{"gemini-1.5-flash-exp", 1500 + 300 + 200},
		{"gemini-pro", 400},
		{"gemini-3.0-pro", 3000 + 200 + 400},
		{"gemini-4.0-pro", 4000 + 500 + 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreModel(tt.name); got != tt.want {
				t.Errorf("ScoreModel(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestRankModels(t *testing.T) {
	models := []ModelInfo{
		{Name: "gemini-1.0-pro"},
		{Name: "gemini-2.0-flash-thinking-exp"},
		{Name: "gemini-1.5-flash"},
		{Name: "gemini-2.0-flash-exp"},
	}

	ranked := RankModels(models)

	want := []string{
		"gemini-2.0-flash-thinking-exp",
		"gemini-2.0-flash-exp",
		"gemini-1.5-flash",
		"gemini-1.0-pro",
	}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Name, name)
		}
	}

	// Input must not be reordered.
	if models[0].Name != "gemini-1.0-pro" {
		t.Error("RankModels mutated its input")
	}
}

func TestResolveModel_ExplicitModelKept(t *testing.T) {
	client := &Client{provider: ProviderGoogle, model: "gemini-1.5-flash"}

	if got := client.ResolveModel(context.Background()); got != "gemini-1.5-flash" {
		t.Errorf("ResolveModel() = %q, want configured model kept", got)
	}
}

func TestResolveModel_AutoPicksBestAvailable(t *testing.T) {
	doer := &fakeDoer{
		status: 200,
		body: `{"models": [
			{"name": "models/gemini-1.5-flash", "supportedGenerationMethods": ["generateContent"]},
			{"name": "models/gemini-2.0-flash-thinking-exp", "supportedGenerationMethods": ["generateContent"]}
		]}`,
	}
	client := &Client{provider: ProviderGoogle, model: "auto", apiKey: "key", httpClient: doer}

	got := client.ResolveModel(context.Background())
	if got != "gemini-2.0-flash-thinking-exp" {
		t.Errorf("ResolveModel() = %q, want the thinking model", got)
	}
	if client.Model() != got {
		t.Errorf("Model() = %q, want resolved model stored", client.Model())
	}
}

func TestResolveModel_DiscoveryFailureUsesFallback(t *testing.T) {
	doer := &fakeDoer{status: 500, body: "boom"}
	client := &Client{provider: ProviderGoogle, model: "auto", apiKey: "key", httpClient: doer}

	got := client.ResolveModel(context.Background())
	if got != FallbackModels()[0] {
		t.Errorf("ResolveModel() = %q, want first fallback %q", got, FallbackModels()[0])
	}
}

func TestResolveModel_LocalProvider(t *testing.T) {
	client := &Client{provider: ProviderLocal, model: "auto"}

	if got := client.ResolveModel(context.Background()); got != "default" {
		t.Errorf("ResolveModel() = %q, want %q", got, "default")
	}
}
