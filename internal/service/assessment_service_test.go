package service

import "testing"

func TestValidateQuestions(t *testing.T) {
	valid := QuestionInput{
		Question:      "What is phishing?",
		Options:       []string{"A scam email", "A fish", "A browser", "A password"},
		CorrectAnswer: "A scam email",
	}

	tests := []struct {
		name      string
		questions []QuestionInput
		wantErr   bool
	}{
		{"valid", []QuestionInput{valid}, false},
		{"empty set", nil, true},
		{
			"missing prompt",
			[]QuestionInput{{Options: valid.Options, CorrectAnswer: valid.CorrectAnswer}},
			true,
		},
		{
			"whitespace prompt",
			[]QuestionInput{{Question: "   ", Options: valid.Options, CorrectAnswer: valid.CorrectAnswer}},
			true,
		},
		{
			"single option",
			[]QuestionInput{{Question: "q", Options: []string{"only"}, CorrectAnswer: "only"}},
			true,
		},
		{
			"blank options do not count",
			[]QuestionInput{{Question: "q", Options: []string{"a", "  ", ""}, CorrectAnswer: "a"}},
			true,
		},
		{
			"answer not in options",
			[]QuestionInput{{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: "c"}},
			true,
		},
		{
			"answer must match verbatim",
			[]QuestionInput{{Question: "q", Options: []string{"a", "b"}, CorrectAnswer: "A"}},
			true,
		},
		{
			"second question invalid",
			[]QuestionInput{valid, {Question: "q", Options: []string{"a", "b"}, CorrectAnswer: "x"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestions(tt.questions)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateQuestions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildQuestions(t *testing.T) {
	questions, total := buildQuestions([]QuestionInput{
		{Question: "a", Options: []string{"x", "y"}, CorrectAnswer: "x", Points: 3},
		{Question: "b", Options: []string{"x", "y"}, CorrectAnswer: "y"},
		{Question: "c", Options: []string{"x", "y"}, CorrectAnswer: "x", Points: -5},
	})

	if total != 5 {
		t.Errorf("total points = %d, want 5 (defaults applied)", total)
	}
	if questions[1].Points != 1 || questions[2].Points != 1 {
		t.Error("missing or negative points should default to 1")
	}
	for i, q := range questions {
		if q.Order != i {
			t.Errorf("question %d order = %d, want %d", i, q.Order, i)
		}
	}
}
