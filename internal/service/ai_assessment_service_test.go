package service

import (
	"context"
	"digital_literacy_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClampGenerateInput(t *testing.T) {
	tests := []struct {
		name          string
		in            GenerateInput
		wantQuestions int
		wantTime      int
	}{
		{"below minimum", GenerateInput{QuestionCount: 1, TimeLimit: 0}, 3, 3},
		{"above maximum", GenerateInput{QuestionCount: 100, TimeLimit: 500}, 30, 120},
		{"in range", GenerateInput{QuestionCount: 10, TimeLimit: 15}, 10, 15},
		{"zero time defaults per question", GenerateInput{QuestionCount: 8}, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clampGenerateInput(&tt.in)
			if tt.in.QuestionCount != tt.wantQuestions {
				t.Errorf("questionCount = %d, want %d", tt.in.QuestionCount, tt.wantQuestions)
			}
			if tt.in.TimeLimit != tt.wantTime {
				t.Errorf("timeLimit = %d, want %d", tt.in.TimeLimit, tt.wantTime)
			}
		})
	}
}

func TestParseGeneratedPayload(t *testing.T) {
	body := `{"title":"Passwords","description":"d","questions":[{"question":"q","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e"}]}`

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain json", body, false},
		{"fenced json", "```json\n" + body + "\n```", false},
		{"fenced without language", "```\n" + body + "\n```", false},
		{"whitespace padded", "\n  " + body + "  \n", false},
		{"not json", "Here is your assessment!", true},
		{"no questions", `{"title":"t","questions":[]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := parseGeneratedPayload(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && payload.Title != "Passwords" {
				t.Errorf("title = %q, want Passwords", payload.Title)
			}
		})
	}
}

func TestCompleteCallsChatEndpoint(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer server.Close()

	svc := NewAIAssessmentService(&config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}, nil)

	content, err := svc.complete(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if content != "hello" {
		t.Errorf("content = %q, want hello", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	svc := NewAIAssessmentService(&config.AIConfig{BaseURL: server.URL}, nil)
	if _, err := svc.complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
