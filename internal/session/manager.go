package session

import (
	"context"
	"digital_literacy_backend/internal/model"
	"digital_literacy_backend/internal/util"
	"digital_literacy_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SubmitFunc grades and persists a finished attempt.
type SubmitFunc func(userID uint, assessment *model.Assessment, answers []model.QuestionAnswer) (*model.AssessmentResult, error)

// Manager owns the live sessions, one per student. Starting a new
// session supersedes any previous one for the same student.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*Session

	submit   SubmitFunc
	log      *zap.Logger
	interval time.Duration
}

func NewManager(submit SubmitFunc, log *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uint]*Session),
		submit:   submit,
		log:      log,
		interval: time.Second,
	}
}

// Start begins a fresh attempt. Any existing session for the student is
// discarded and its countdown stopped.
func (m *Manager) Start(userID uint, assessment *model.Assessment) Snapshot {
	s := newSession(userID, assessment)

	m.mu.Lock()
	if old, ok := m.sessions[userID]; ok {
		old.mu.Lock()
		if old.cancel != nil {
			old.cancel()
		}
		if old.status == StatusInProgress {
			monitoring.ActiveSessions.Dec()
		}
		old.status = StatusCompleted
		old.mu.Unlock()
	}
	m.sessions[userID] = s
	m.mu.Unlock()

	monitoring.ActiveSessions.Inc()

	if s.timed {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go m.runTimer(ctx, s)
	}

	return s.Snapshot()
}

func (m *Manager) get(userID uint) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, util.ErrNoActiveSession
	}
	return s, nil
}

func (m *Manager) Snapshot(userID uint) (Snapshot, error) {
	s, err := m.get(userID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

func (m *Manager) Answer(userID, questionID uint, answer string) error {
	s, err := m.get(userID)
	if err != nil {
		return err
	}
	return s.Answer(questionID, answer)
}

func (m *Manager) Next(userID uint) (Snapshot, error) {
	s, err := m.get(userID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Next()
}

func (m *Manager) Previous(userID uint) (Snapshot, error) {
	s, err := m.get(userID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Previous()
}

// Submit finishes the attempt at the student's request. All questions
// must be answered; once the countdown has expired the forced submission
// owns the session and a manual submit is rejected.
func (m *Manager) Submit(userID uint) (*model.AssessmentResult, error) {
	s, err := m.get(userID)
	if err != nil {
		return nil, err
	}
	return m.finish(s, false)
}

func (m *Manager) runTimer(ctx context.Context, s *Session) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.tick(s) {
				return
			}
		}
	}
}

// tick decrements the countdown. Returns true when the session is over
// and the timer goroutine should exit. Expiry fires the forced
// submission exactly once.
func (m *Manager) tick(s *Session) bool {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return true
	}
	if s.expired {
		s.mu.Unlock()
		return true
	}

	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return false
	}

	s.remaining = 0
	s.expired = true
	s.mu.Unlock()

	monitoring.AutoSubmitCounter.Inc()
	if _, err := m.finish(s, true); err != nil {
		m.log.Error("forced submission failed",
			zap.Uint("userID", s.userID),
			zap.Uint("assessmentID", s.assessment.ID),
			zap.Error(err))
	}
	return true
}

// finish grades and completes the session. forced skips the completeness
// check. The grading callback runs outside the session lock; the
// submitting flag keeps concurrent submits out.
func (m *Manager) finish(s *Session, forced bool) (*model.AssessmentResult, error) {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return nil, util.ErrSessionNotInProgress
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, util.ErrSubmitInFlight
	}
	if !forced && s.expired {
		s.mu.Unlock()
		return nil, util.ErrTimeExpired
	}
	if !forced && len(s.answers) < s.assessment.QuestionCount() {
		s.mu.Unlock()
		return nil, util.ErrIncompleteAnswers
	}

	s.submitting = true
	answers := s.answerList()
	userID := s.userID
	assessment := s.assessment
	s.mu.Unlock()

	result, err := m.submit(userID, assessment, answers)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.status = StatusCompleted
	s.result = result
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	monitoring.ActiveSessions.Dec()
	return result, nil
}

// Active reports the number of sessions currently in progress.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		s.mu.Lock()
		if s.status == StatusInProgress {
			n++
		}
		s.mu.Unlock()
	}
	return n
}
