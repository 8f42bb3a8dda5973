package session

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testAssessment(questionCount, timeLimitMinutes int) *model.Assessment {
	a := &model.Assessment{
		Title:     "Internet Basics",
		TimeLimit: timeLimitMinutes,
	}
	a.ID = 1
	for i := 0; i < questionCount; i++ {
		q := model.Question{
			Prompt:        "q",
			Options:       []string{"a", "b"},
			CorrectAnswer: "a",
			Points:        1,
		}
		q.ID = uint(i + 1)
		a.Questions = append(a.Questions, q)
	}
	return a
}

type fakeGrader struct {
	mu      sync.Mutex
	calls   int
	answers [][]model.QuestionAnswer
	err     error
	block   chan struct{}
}

func (g *fakeGrader) submit(userID uint, a *model.Assessment, answers []model.QuestionAnswer) (*model.AssessmentResult, error) {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.answers = append(g.answers, answers)
	if g.err != nil {
		return nil, g.err
	}
	return &model.AssessmentResult{
		UserID:       userID,
		AssessmentID: a.ID,
		Answers:      json.RawMessage("[]"),
	}, nil
}

func (g *fakeGrader) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func newTestManager(g *fakeGrader) *Manager {
	m := NewManager(g.submit, zap.NewNop())
	m.interval = time.Hour // timers driven manually through tick in tests
	return m
}

func TestStartSnapshot(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	snap := m.Start(7, testAssessment(5, 10))

	if snap.Status != StatusInProgress {
		t.Fatalf("status = %q, want %q", snap.Status, StatusInProgress)
	}
	if snap.QuestionCount != 5 {
		t.Errorf("questionCount = %d, want 5", snap.QuestionCount)
	}
	if !snap.Timed || snap.RemainingSeconds != 600 {
		t.Errorf("timed = %v remaining = %d, want timed 600s", snap.Timed, snap.RemainingSeconds)
	}
	if snap.CurrentQuestion != 0 || snap.AnsweredCount != 0 {
		t.Errorf("fresh session should start at question 0 with no answers")
	}
}

func TestUntimedSessionNeverExpires(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	snap := m.Start(1, testAssessment(2, 0))

	if snap.Timed {
		t.Fatal("assessment with no time limit should produce an untimed session")
	}

	s, _ := m.get(1)
	if s.cancel != nil {
		t.Error("untimed session should not run a countdown goroutine")
	}
}

func TestStartSupersedesPreviousSession(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	m.Start(1, testAssessment(2, 10))
	if err := m.Answer(1, 1, "a"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	snap := m.Start(1, testAssessment(3, 10))
	if snap.AnsweredCount != 0 {
		t.Errorf("restart should discard previous answers, got %d", snap.AnsweredCount)
	}
	if snap.QuestionCount != 3 {
		t.Errorf("restart should use the new assessment, got %d questions", snap.QuestionCount)
	}
}

func TestAnswerValidation(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	m.Start(1, testAssessment(2, 10))

	if err := m.Answer(1, 99, "a"); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("unknown question: got %v, want ErrQuestionNotFound", err)
	}
	if err := m.Answer(2, 1, "a"); !errors.Is(err, util.ErrNoActiveSession) {
		t.Errorf("unknown user: got %v, want ErrNoActiveSession", err)
	}

	// Overwriting an answer is allowed.
	if err := m.Answer(1, 1, "a"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := m.Answer(1, 1, "b"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	snap, _ := m.Snapshot(1)
	if snap.AnsweredCount != 1 || snap.Answers[1] != "b" {
		t.Errorf("answers = %v, want question 1 answered with b", snap.Answers)
	}
}

func TestNavigationClamps(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	m.Start(1, testAssessment(3, 10))

	snap, err := m.Previous(1)
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	if snap.CurrentQuestion != 0 {
		t.Errorf("previous at first question should stay at 0, got %d", snap.CurrentQuestion)
	}

	for i := 0; i < 5; i++ {
		snap, err = m.Next(1)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	if snap.CurrentQuestion != 2 {
		t.Errorf("next past last question should clamp at 2, got %d", snap.CurrentQuestion)
	}
}

func TestSubmitRequiresAllAnswers(t *testing.T) {
	g := &fakeGrader{}
	m := newTestManager(g)
	m.Start(1, testAssessment(2, 10))
	m.Answer(1, 1, "a")

	if _, err := m.Submit(1); !errors.Is(err, util.ErrIncompleteAnswers) {
		t.Fatalf("partial submit: got %v, want ErrIncompleteAnswers", err)
	}
	if g.callCount() != 0 {
		t.Error("grader should not run for a rejected submit")
	}

	m.Answer(1, 2, "b")
	result, err := m.Submit(1)
	if err != nil {
		t.Fatalf("complete submit: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}

	snap, _ := m.Snapshot(1)
	if snap.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", snap.Status)
	}
	if snap.Result == nil {
		t.Error("snapshot should carry the result after submission")
	}
}

func TestSubmitAfterCompletionRejected(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	m.Start(1, testAssessment(1, 10))
	m.Answer(1, 1, "a")
	if _, err := m.Submit(1); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := m.Submit(1); !errors.Is(err, util.ErrSessionNotInProgress) {
		t.Errorf("second submit: got %v, want ErrSessionNotInProgress", err)
	}
	if err := m.Answer(1, 1, "b"); !errors.Is(err, util.ErrSessionNotInProgress) {
		t.Errorf("answer after completion: got %v, want ErrSessionNotInProgress", err)
	}
	if _, err := m.Next(1); !errors.Is(err, util.ErrSessionNotInProgress) {
		t.Errorf("next after completion: got %v, want ErrSessionNotInProgress", err)
	}
}

func TestConcurrentSubmitDeduplicated(t *testing.T) {
	g := &fakeGrader{block: make(chan struct{})}
	m := newTestManager(g)
	m.Start(1, testAssessment(1, 10))
	m.Answer(1, 1, "a")

	errs := make(chan error, 1)
	go func() {
		_, err := m.Submit(1)
		errs <- err
	}()

	// Wait for the first submit to take the in-flight flag.
	deadline := time.Now().Add(time.Second)
	for {
		s, _ := m.get(1)
		s.mu.Lock()
		inFlight := s.submitting
		s.mu.Unlock()
		if inFlight {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first submit never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := m.Submit(1); !errors.Is(err, util.ErrSubmitInFlight) {
		t.Errorf("second submit: got %v, want ErrSubmitInFlight", err)
	}

	close(g.block)
	if err := <-errs; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if g.callCount() != 1 {
		t.Errorf("grader ran %d times, want 1", g.callCount())
	}
}

func TestExpiryForcesSubmitOnce(t *testing.T) {
	g := &fakeGrader{}
	m := newTestManager(g)
	a := testAssessment(3, 1) // 60 seconds
	m.Start(1, a)
	m.Answer(1, 1, "a")

	s, _ := m.get(1)
	done := false
	for i := 0; i < 60; i++ {
		done = m.tick(s)
	}
	if !done {
		t.Fatal("tick should report the session finished at expiry")
	}
	if g.callCount() != 1 {
		t.Fatalf("forced submit ran %d times, want exactly 1", g.callCount())
	}
	if len(g.answers[0]) != 1 {
		t.Errorf("forced submit should carry the partial answers, got %d", len(g.answers[0]))
	}

	// Further ticks are no-ops.
	if !m.tick(s) {
		t.Error("tick after completion should report done")
	}
	if g.callCount() != 1 {
		t.Errorf("extra ticks resubmitted, calls = %d", g.callCount())
	}
}

func TestExpiryBlocksNextAllowsPrevious(t *testing.T) {
	g := &fakeGrader{err: errors.New("db down")}
	m := newTestManager(g)
	m.Start(1, testAssessment(3, 1))
	m.Next(1)

	s, _ := m.get(1)
	for i := 0; i < 60; i++ {
		m.tick(s)
	}

	// Forced submission failed, so the session is still in progress but expired.
	if _, err := m.Next(1); !errors.Is(err, util.ErrTimeExpired) {
		t.Errorf("next after expiry: got %v, want ErrTimeExpired", err)
	}
	snap, err := m.Previous(1)
	if err != nil {
		t.Fatalf("previous after expiry: %v", err)
	}
	if snap.CurrentQuestion != 0 {
		t.Errorf("previous should still navigate, got question %d", snap.CurrentQuestion)
	}
	if _, err := m.Submit(1); !errors.Is(err, util.ErrTimeExpired) {
		t.Errorf("manual submit after expiry: got %v, want ErrTimeExpired", err)
	}
}

func TestCountdownGoroutineExpires(t *testing.T) {
	g := &fakeGrader{}
	m := NewManager(g.submit, zap.NewNop())
	m.interval = time.Millisecond

	a := testAssessment(1, 1)
	a.TimeLimit = 1
	snap := m.Start(1, a)
	if !snap.Timed {
		t.Fatal("expected a timed session")
	}

	deadline := time.Now().Add(5 * time.Second)
	for g.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("countdown never fired the forced submission")
		}
		time.Sleep(5 * time.Millisecond)
	}

	snap, err := m.Snapshot(1)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Status != StatusCompleted {
		t.Errorf("status = %q, want completed after auto submit", snap.Status)
	}
	if snap.RemainingSeconds != 0 {
		t.Errorf("remaining = %d, want 0", snap.RemainingSeconds)
	}
}

func TestRestartAfterCompletion(t *testing.T) {
	m := newTestManager(&fakeGrader{})
	m.Start(1, testAssessment(1, 10))
	m.Answer(1, 1, "a")
	if _, err := m.Submit(1); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := m.Start(1, testAssessment(1, 10))
	if snap.Status != StatusInProgress || snap.AnsweredCount != 0 || snap.Result != nil {
		t.Errorf("restart should produce a clean in-progress session, got %+v", snap)
	}
}
