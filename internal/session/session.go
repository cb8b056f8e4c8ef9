package session

import (
	"errors"
	"math"
	"sync"
	"time"

	"cerebrum-service/internal/models"
)

// DefaultQuestionTime is the per-question countdown used when no limit is
// configured.
const DefaultQuestionTime = 30 * time.Second

// Session statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

var (
	ErrSessionCompleted = errors.New("session already completed")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrNoQuestions      = errors.New("session has no questions yet")
	ErrAlreadyAttached  = errors.New("questions already attached")
)

// Snapshot is the render-ready view of a session: the current question with
// its options in display order, progress counters and the countdown.
type Snapshot struct {
	SessionID     string   `json:"session_id"`
	Status        string   `json:"status"`
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer,omitempty"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	TimeRemaining int      `json:"time_remaining"`
}

// Session is one quiz attempt from start to submission. All transitions,
// user-driven and timer-driven, run through the same locked code path; the
// per-question timer is cancelled and re-armed on every index change so at
// most one deadline callback is pending at a time.
type Session struct {
	mu sync.Mutex

	ID           string
	UserID       string
	UserName     string
	CategoryID   int
	CategoryName string
	Difficulty   string

	questions []models.Question
	current   int
	answers   map[int]string
	startedAt time.Time
	deadline  time.Time
	status    string
	result    *models.QuizResult

	timeLimit time.Duration
	timer     *time.Timer
	timerGen  uint64

	onComplete func(*Session, models.QuizResult)
	now        func() time.Time
}

func newSession(id, userID, userName string, categoryID int, categoryName, difficulty string, timeLimit time.Duration) *Session {
	if timeLimit <= 0 {
		timeLimit = DefaultQuestionTime
	}
	return &Session{
		ID:           id,
		UserID:       userID,
		UserName:     userName,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Difficulty:   difficulty,
		answers:      make(map[int]string),
		status:       StatusInProgress,
		timeLimit:    timeLimit,
		now:          time.Now,
	}
}

// attach hands the fetched question list to the session and starts the
// countdown on the first question. The list is fixed from here on.
func (s *Session) attach(questions []models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return ErrSessionCompleted
	}
	if len(s.questions) > 0 {
		return ErrAlreadyAttached
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.questions = questions
	s.current = 0
	s.startedAt = s.now()
	s.armTimerLocked()
	return nil
}

// RecordAnswer stores the user's selection for a question. A later call for
// the same index overwrites the earlier one.
func (s *Session) RecordAnswer(index int, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return ErrSessionCompleted
	}
	if len(s.questions) == 0 {
		return ErrNoQuestions
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}
	s.answers[index] = answer
	return nil
}

// GoTo moves to the given question. Out-of-range indices are silent no-ops.
// Every entry to a question, including re-entry, restarts the countdown.
func (s *Session) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(index)
}

// Advance moves to the next question.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current + 1)
}

// Retreat moves to the previous question.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current - 1)
}

func (s *Session) goToLocked(index int) {
	if s.status != StatusInProgress || len(s.questions) == 0 {
		return
	}
	if index < 0 || index >= len(s.questions) {
		return
	}
	s.current = index
	s.armTimerLocked()
}

// armTimerLocked cancels any pending deadline and starts a fresh countdown.
// The generation counter makes an already-fired callback from a cancelled
// timer harmless.
func (s *Session) armTimerLocked() {
	s.timerGen++
	gen := s.timerGen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.deadline = s.now().Add(s.timeLimit)
	s.timer = time.AfterFunc(s.timeLimit, func() {
		s.expire(gen)
	})
}

func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	if s.status != StatusInProgress || gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	res, first := s.timeExpireLocked()
	s.mu.Unlock()

	if first {
		s.fireComplete(res)
	}
}

// TimeExpire applies the deadline rule: carry the user forward to the next
// question, or submit when the last question times out.
func (s *Session) TimeExpire() {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return
	}
	res, first := s.timeExpireLocked()
	s.mu.Unlock()

	if first {
		s.fireComplete(res)
	}
}

func (s *Session) timeExpireLocked() (models.QuizResult, bool) {
	if len(s.questions) == 0 {
		// Questions never arrived; restart the countdown rather than
		// completing an empty quiz.
		s.armTimerLocked()
		return models.QuizResult{}, false
	}
	if s.current < len(s.questions)-1 {
		s.goToLocked(s.current + 1)
		return models.QuizResult{}, false
	}
	return s.completeLocked()
}

// Submit finalizes the session and returns its result. Submitting before
// the questions have arrived fails with ErrNoQuestions and leaves the
// session playable. Submitting twice returns the identical result; only
// the first call has any effect.
func (s *Session) Submit() (models.QuizResult, error) {
	s.mu.Lock()
	if s.result == nil && len(s.questions) == 0 {
		s.mu.Unlock()
		return models.QuizResult{}, ErrNoQuestions
	}
	res, first := s.completeLocked()
	s.mu.Unlock()

	if first {
		s.fireComplete(res)
	}
	return res, nil
}

func (s *Session) completeLocked() (models.QuizResult, bool) {
	if s.result != nil {
		return *s.result, false
	}

	s.status = StatusCompleted
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	correct := 0
	for i, q := range s.questions {
		if s.answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	total := len(s.questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	res := models.QuizResult{
		CorrectCount:   correct,
		TotalCount:     total,
		ScorePercent:   score,
		ElapsedSeconds: int(s.now().Sub(s.startedAt).Seconds()),
		Category:       s.CategoryName,
		Difficulty:     s.Difficulty,
	}
	s.result = &res
	return res, true
}

func (s *Session) fireComplete(res models.QuizResult) {
	if s.onComplete != nil {
		s.onComplete(s, res)
	}
}

// stop cancels the countdown without completing the session. Used when a
// new session replaces this one.
func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Result returns the session result if the session has completed.
func (s *Session) Result() (models.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return models.QuizResult{}, false
	}
	return *s.result, true
}

// Snapshot returns the current state for rendering. Options is nil while
// questions are still loading; shuffle decides the display order so it
// varies between entries to the same question.
func (s *Session) Snapshot(shuffle func(models.Question) []string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:  s.ID,
		Status:     s.status,
		Index:      s.current,
		Total:      len(s.questions),
		Category:   s.CategoryName,
		Difficulty: s.Difficulty,
	}
	if len(s.questions) == 0 || s.status != StatusInProgress {
		return snap
	}

	q := s.questions[s.current]
	snap.Prompt = q.Prompt
	if shuffle != nil {
		snap.Options = shuffle(q)
	}
	snap.Answer = s.answers[s.current]
	if remaining := s.deadline.Sub(s.now()); remaining > 0 {
		snap.TimeRemaining = int(remaining.Seconds())
	}
	return snap
}

// Review pairs every question with the recorded answer. Only available once
// the session has completed.
func (s *Session) Review() ([]models.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusCompleted {
		return nil, errors.New("session not completed")
	}

	items := make([]models.ReviewItem, 0, len(s.questions))
	for i, q := range s.questions {
		answer, answered := s.answers[i]
		items = append(items, models.ReviewItem{
			Index:         i,
			Prompt:        q.Prompt,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectAnswer,
			Answered:      answered,
			Correct:       answered && answer == q.CorrectAnswer,
		})
	}
	return items, nil
}
