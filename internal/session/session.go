package session

import (
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"sync"
	"time"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Session is one student's live attempt at an assessment. All state is
// guarded by mu; the countdown goroutine and HTTP handlers both mutate it.
type Session struct {
	mu sync.Mutex

	userID     uint
	assessment *model.Assessment

	status     Status
	answers    map[uint]string
	current    int
	remaining  int // seconds; meaningful only when timed
	timed      bool
	expired    bool
	submitting bool
	startedAt  time.Time

	result *model.AssessmentResult

	cancel func()
}

// Snapshot is the wire view of a session returned to the client.
type Snapshot struct {
	AssessmentID     uint                    `json:"assessmentId"`
	Status           Status                  `json:"status"`
	CurrentQuestion  int                     `json:"currentQuestion"`
	QuestionCount    int                     `json:"questionCount"`
	AnsweredCount    int                     `json:"answeredCount"`
	Answers          map[uint]string         `json:"answers"`
	Progress         int                     `json:"progress"` // percent of questions reached
	Timed            bool                    `json:"timed"`
	RemainingSeconds int                     `json:"remainingSeconds"`
	TimeExpired      bool                    `json:"timeExpired"`
	StartedAt        time.Time               `json:"startedAt"`
	Result           *model.AssessmentResult `json:"result,omitempty"`
}

func newSession(userID uint, assessment *model.Assessment) *Session {
	s := &Session{
		userID:     userID,
		assessment: assessment,
		status:     StatusInProgress,
		answers:    make(map[uint]string),
		startedAt:  time.Now(),
	}
	if assessment.TimeLimit > 0 {
		s.timed = true
		s.remaining = assessment.TimeLimit * 60
	}
	return s
}

func (s *Session) snapshotLocked() Snapshot {
	answers := make(map[uint]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	progress := 0
	if n := s.assessment.QuestionCount(); n > 0 {
		progress = (s.current + 1) * 100 / n
	}
	return Snapshot{
		AssessmentID:     s.assessment.ID,
		Status:           s.status,
		CurrentQuestion:  s.current,
		QuestionCount:    s.assessment.QuestionCount(),
		AnsweredCount:    len(s.answers),
		Answers:          answers,
		Progress:         progress,
		Timed:            s.timed,
		RemainingSeconds: s.remaining,
		TimeExpired:      s.expired,
		StartedAt:        s.startedAt,
		Result:           s.result,
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Answer records or overwrites the answer for one question. Answers are
// still accepted after expiry while the auto-submit is in flight; the
// grader reads the map once under the lock, so late writes either land
// before grading or are ignored.
func (s *Session) Answer(questionID uint, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return util.ErrSessionNotInProgress
	}

	for _, q := range s.assessment.Questions {
		if q.ID == questionID {
			s.answers[questionID] = answer
			return nil
		}
	}
	return util.ErrQuestionNotFound
}

// Next advances to the following question. Blocked once time has expired.
func (s *Session) Next() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return Snapshot{}, util.ErrSessionNotInProgress
	}
	if s.expired {
		return Snapshot{}, util.ErrTimeExpired
	}
	if s.current < s.assessment.QuestionCount()-1 {
		s.current++
	}
	return s.snapshotLocked(), nil
}

// Previous moves back one question. Allowed even after expiry so the
// client can review while the forced submission completes.
func (s *Session) Previous() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return Snapshot{}, util.ErrSessionNotInProgress
	}
	if s.current > 0 {
		s.current--
	}
	return s.snapshotLocked(), nil
}

func (s *Session) answerList() []model.QuestionAnswer {
	answers := make([]model.QuestionAnswer, 0, len(s.answers))
	for _, q := range s.assessment.Questions {
		if v, ok := s.answers[q.ID]; ok {
			answers = append(answers, model.QuestionAnswer{QuestionID: q.ID, UserAnswer: v})
		}
	}
	return answers
}
