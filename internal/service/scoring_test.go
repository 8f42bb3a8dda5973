package service

import (
	"digital_literacy_backend/internal/model"
	"encoding/json"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		percentage int
		want       model.LiteracyLevel
	}{
		{100, model.Literate},
		{81, model.Literate},
		{80, model.Literate},
		{79, model.SemiLiterate},
		{51, model.SemiLiterate},
		{50, model.SemiLiterate},
		{49, model.Illiterate},
		{1, model.Illiterate},
		{0, model.Illiterate},
	}

	for _, tt := range tests {
		if got := Classify(tt.percentage); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}

func TestPassed(t *testing.T) {
	if !Passed(70) {
		t.Error("Passed(70) = false, want true")
	}
	if Passed(69) {
		t.Error("Passed(69) = true, want false")
	}
}

func scoringAssessment(points ...int) *model.Assessment {
	a := &model.Assessment{Title: "Email Safety"}
	a.ID = 1
	for i, p := range points {
		q := model.Question{
			Prompt:        "q",
			Options:       []string{"right", "wrong"},
			CorrectAnswer: "right",
			Points:        p,
		}
		q.ID = uint(i + 1)
		a.Questions = append(a.Questions, q)
	}
	return a
}

func TestScoreGradesEveryQuestion(t *testing.T) {
	a := scoringAssessment(1, 1, 1)
	result, err := Score(a, []model.QuestionAnswer{
		{QuestionID: 1, UserAnswer: "right"},
		{QuestionID: 2, UserAnswer: "wrong"},
		// question 3 unanswered
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Score != 1 || result.MaxScore != 3 {
		t.Errorf("score = %d/%d, want 1/3", result.Score, result.MaxScore)
	}

	var details []model.AnswerDetail
	if err := json.Unmarshal(result.Answers, &details); err != nil {
		t.Fatal(err)
	}
	if len(details) != 3 {
		t.Fatalf("details = %d entries, want 3 (unanswered questions included)", len(details))
	}
	if details[2].UserAnswer != "" || details[2].IsCorrect {
		t.Errorf("unanswered question should be incorrect with empty answer, got %+v", details[2])
	}
}

func TestScoreRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name    string
		points  []int
		correct []uint
		want    int
	}{
		{"one of three", []int{1, 1, 1}, []uint{1}, 33},
		{"two of three", []int{1, 1, 1}, []uint{1, 2}, 67},
		{"one of two", []int{1, 1}, []uint{1}, 50},
		{"all", []int{1, 1}, []uint{1, 2}, 100},
		{"none", []int{1, 1}, nil, 0},
		{"weighted", []int{3, 1}, []uint{1}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scoringAssessment(tt.points...)
			var answers []model.QuestionAnswer
			for _, id := range tt.correct {
				answers = append(answers, model.QuestionAnswer{QuestionID: id, UserAnswer: "right"})
			}
			result, err := Score(a, answers)
			if err != nil {
				t.Fatal(err)
			}
			if result.Percentage != tt.want {
				t.Errorf("percentage = %d, want %d", result.Percentage, tt.want)
			}
			if result.Level != Classify(tt.want) {
				t.Errorf("level = %q, want %q", result.Level, Classify(tt.want))
			}
		})
	}
}

func TestScoreZeroPointQuestionCountsAsOne(t *testing.T) {
	a := scoringAssessment(0, 0)
	result, err := Score(a, []model.QuestionAnswer{{QuestionID: 1, UserAnswer: "right"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.MaxScore != 2 || result.Score != 1 {
		t.Errorf("score = %d/%d, want 1/2", result.Score, result.MaxScore)
	}
}

func TestScoreEmptyAssessment(t *testing.T) {
	a := &model.Assessment{}
	result, err := Score(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Percentage != 0 || result.Level != model.Illiterate {
		t.Errorf("empty assessment should score 0 illiterate, got %d %q", result.Percentage, result.Level)
	}
}

func TestScoreFeedbackMatchesLevel(t *testing.T) {
	a := scoringAssessment(1)
	result, err := Score(a, []model.QuestionAnswer{{QuestionID: 1, UserAnswer: "right"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Level != model.Literate || result.Feedback == "" {
		t.Errorf("perfect score should be literate with feedback, got %q %q", result.Level, result.Feedback)
	}
}
