package service

import (
	"bytes"
	"context"
	"digital_literacy_backend/internal/config"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	minGeneratedQuestions = 3
	maxGeneratedQuestions = 30
	minTimeLimit          = 1
	maxTimeLimit          = 120
)

// AIAssessmentService generates assessments through an OpenAI-compatible
// chat completions endpoint.
type AIAssessmentService struct {
	cfg         *config.AIConfig
	assessments *AssessmentService
	client      *http.Client
}

func NewAIAssessmentService(cfg *config.AIConfig, assessments *AssessmentService) *AIAssessmentService {
	return &AIAssessmentService{
		cfg:         cfg,
		assessments: assessments,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

type GenerateInput struct {
	Topic         string              `json:"topic" binding:"required"`
	AgeGroup      string              `json:"ageGroup"`
	SkillCategory model.SkillCategory `json:"skillCategory"`
	QuestionCount int                 `json:"questionCount"`
	TimeLimit     int                 `json:"timeLimit"`
	Language      string              `json:"language"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type generatedPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
		Explanation   string   `json:"explanation"`
	} `json:"questions"`
}

// clampGenerateInput normalizes the requested shape into supported ranges.
func clampGenerateInput(in *GenerateInput) {
	if in.QuestionCount < minGeneratedQuestions {
		in.QuestionCount = minGeneratedQuestions
	}
	if in.QuestionCount > maxGeneratedQuestions {
		in.QuestionCount = maxGeneratedQuestions
	}
	if in.TimeLimit < minTimeLimit {
		in.TimeLimit = in.QuestionCount // one minute per question by default
	}
	if in.TimeLimit > maxTimeLimit {
		in.TimeLimit = maxTimeLimit
	}
	if in.SkillCategory == "" {
		in.SkillCategory = model.SkillBasic
	}
	if in.Language == "" {
		in.Language = "en"
	}
}

func buildPrompt(in GenerateInput) string {
	audience := "a general audience"
	if in.AgeGroup != "" {
		audience = "the " + in.AgeGroup + " age group"
	}
	return fmt.Sprintf(`Generate a digital literacy assessment about "%s" for %s at the %s skill level, in language %q.
Produce exactly %d multiple-choice questions. Respond with ONLY a JSON object, no markdown fences, in this shape:
{"title": "...", "description": "...", "questions": [{"question": "...", "options": ["...","...","...","..."], "correctAnswer": "...", "explanation": "..."}]}
Each question must have exactly 4 distinct options and correctAnswer must be copied verbatim from options.`,
		in.Topic, audience, in.SkillCategory, in.Language, in.QuestionCount)
}

// Generate asks the model for an assessment, validates the payload, and
// persists it under the requesting teacher.
func (s *AIAssessmentService) Generate(ctx context.Context, creatorID uint, in GenerateInput) (*model.Assessment, error) {
	clampGenerateInput(&in)

	content, err := s.complete(ctx, buildPrompt(in))
	if err != nil {
		return nil, err
	}

	payload, err := parseGeneratedPayload(content)
	if err != nil {
		logger.Log.Warn("AI returned unparseable assessment payload", zap.Error(err))
		return nil, fmt.Errorf("AI response could not be parsed: %w", err)
	}

	questions := make([]QuestionInput, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		questions = append(questions, QuestionInput{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        1,
		})
	}

	title := payload.Title
	if strings.TrimSpace(title) == "" {
		title = in.Topic + " Assessment"
	}

	return s.assessments.Create(creatorID, AssessmentInput{
		Title:         title,
		Description:   payload.Description,
		SkillCategory: in.SkillCategory,
		TimeLimit:     in.TimeLimit,
		Questions:     questions,
	})
}

func (s *AIAssessmentService) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an assessment author for a digital literacy learning platform. You respond with strict JSON only."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", err
	}
	if cr.Error != nil {
		return "", fmt.Errorf("AI endpoint error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("AI endpoint returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}

// parseGeneratedPayload tolerates markdown fences around the JSON body.
func parseGeneratedPayload(content string) (*generatedPayload, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, err
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("payload contains no questions")
	}
	return &payload, nil
}
