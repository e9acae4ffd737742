package llm

import (
	"strings"
	"testing"
)

func TestBuildLocalRequest_SystemAndUser(t *testing.T) {
	client := &Client{model: "qwen2.5-coder"}

	req := client.buildLocalRequest(Request{
		System: "You write schedules",
		Prompt: "Hello",
	})

	if len(req.Messages) != 2 {
		t.Fatalf("Messages length = %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "You write schedules" {
		t.Errorf("first message = %+v, want system prompt", req.Messages[0])
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "Hello" {
		t.Errorf("second message = %+v, want user prompt", req.Messages[1])
	}
	if req.Model != "qwen2.5-coder" {
		t.Errorf("Model = %q, want %q", req.Model, "qwen2.5-coder")
	}
}

func TestBuildLocalRequest_PlaceholderModelsCleared(t *testing.T) {
	for _, model := range []string{"default", "local", "auto"} {
		t.Run(model, func(t *testing.T) {
			client := &Client{model: model}
			req := client.buildLocalRequest(Request{Prompt: "Hello"})
			if req.Model != "" {
				t.Errorf("Model = %q, want empty so the server picks its loaded model", req.Model)
			}
		})
	}
}

func TestParseLocalResponse_Success(t *testing.T) {
	responseJSON := `{
		"choices": [
			{"message": {"content": "generated schedule"}}
		]
	}`

	resp, err := parseLocalResponse([]byte(responseJSON), "qwen2.5-coder")
	if err != nil {
		t.Fatalf("parseLocalResponse() error = %v", err)
	}
	if resp.Content != "generated schedule" {
		t.Errorf("Content = %q, want %q", resp.Content, "generated schedule")
	}
	if resp.Model != "qwen2.5-coder" {
		t.Errorf("Model = %q, want %q", resp.Model, "qwen2.5-coder")
	}
}

func TestParseLocalResponse_PlaceholderModelReportedAsLocal(t *testing.T) {
	responseJSON := `{"choices": [{"message": {"content": "ok"}}]}`

	resp, err := parseLocalResponse([]byte(responseJSON), "default")
	if err != nil {
		t.Fatalf("parseLocalResponse() error = %v", err)
	}
	if resp.Model != "local" {
		t.Errorf("Model = %q, want %q", resp.Model, "local")
	}
}

func TestParseLocalResponse_ErrorResponse(t *testing.T) {
	responseJSON := `{"error": {"message": "model not loaded"}}`

	_, err := parseLocalResponse([]byte(responseJSON), "default")
	if err == nil {
		t.Fatal("parseLocalResponse() expected error")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error = %q, want to contain 'model not loaded'", err.Error())
	}
}

func TestParseLocalResponse_EmptyChoices(t *testing.T) {
	_, err := parseLocalResponse([]byte(`{"choices": []}`), "default")
	if err == nil {
		t.Fatal("parseLocalResponse() expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Errorf("error = %q, want to contain 'empty response'", err.Error())
	}
}
