package services

import (
	"context"
	"sync"
	"time"

	"quizengine/models"
	"quizengine/session"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Notifier pushes attempt events to connected clients.
type Notifier interface {
	BroadcastToAttempt(attemptID string, messageType string, payload interface{})
}

type StartAttemptRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

type SubmitAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	OptionID   uint `json:"option_id" binding:"required"`
}

type SeekRequest struct {
	Index *int `json:"index" binding:"required"`
}

// liveAttempt is an attempt whose session is held in memory. mu serializes every event of the
// attempt, since the session itself does not lock.
type liveAttempt struct {
	mu      sync.Mutex
	stale   bool // set when evicted; holders of a stale attempt must reload it
	id      string
	quizID  uint
	userID  uint
	session *session.Session
}

func (a *liveAttempt) state() *AttemptState {
	return &AttemptState{
		AttemptID: a.id,
		QuizID:    a.quizID,
		UserID:    a.userID,
		Snapshot:  a.session.Snapshot(),
	}
}

type AttemptService struct {
	quizzes  QuizSource
	repo     AttemptRepository
	states   StateStore
	notifier Notifier

	mutex sync.Mutex
	live  map[string]*liveAttempt
	newID func() string
}

func NewAttemptService(quizzes QuizSource, repo AttemptRepository, states StateStore) *AttemptService {
	return &AttemptService{
		quizzes: quizzes,
		repo:    repo,
		states:  states,
		live:    make(map[string]*liveAttempt),
		newID:   uuid.NewString,
	}
}

// SetNotifier wires the websocket hub once both sides exist.
func (s *AttemptService) SetNotifier(n Notifier) {
	s.notifier = n
}

// PreviewSequence assembles a quiz without starting an attempt.
func (s *AttemptService) PreviewSequence(ctx context.Context, quizID uint) (*SequenceView, error) {
	quiz, err := s.quizzes.LoadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	seq, issues := session.Assemble(quiz)
	if issues == nil {
		issues = []session.Issue{}
	}
	return &SequenceView{
		QuizID:      quizID,
		Items:       buildItemViews(seq, noAnswers),
		Order:       seq.QuestionIDs(),
		Issues:      issues,
		IsEmptyQuiz: seq.Empty(),
	}, nil
}

func (s *AttemptService) StartAttempt(ctx context.Context, userID uint, req *StartAttemptRequest) (*AttemptView, error) {
	quiz, err := s.quizzes.LoadQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}

	sess := session.New(quiz)
	for _, issue := range sess.Issues {
		log.WithField("quiz_id", req.QuizID).Warnf("Quiz assembled with issue: %v", issue)
	}

	attempt := models.Attempt{
		ID:        s.newID(),
		QuizID:    req.QuizID,
		UserID:    userID,
		Status:    models.AttemptInProgress,
		StartedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, &attempt); err != nil {
		return nil, err
	}

	la := &liveAttempt{id: attempt.ID, quizID: attempt.QuizID, userID: userID, session: sess}
	s.mutex.Lock()
	s.live[attempt.ID] = la
	s.mutex.Unlock()

	s.storeState(ctx, la)

	log.Printf("Attempt %s started on quiz %d by user %d (%d questions)", attempt.ID, attempt.QuizID, userID, sess.Sequence.Len())
	return buildAttemptView(la.id, la.quizID, sess), nil
}

// CurrentView returns the attempt as the learner's interface paints it.
func (s *AttemptService) CurrentView(ctx context.Context, attemptID string, userID uint) (*AttemptView, error) {
	la, err := s.acquire(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	defer la.mu.Unlock()

	return buildAttemptView(la.id, la.quizID, la.session), nil
}

// WithView calls fn with the current view of an attempt while holding the attempt's lock.
// Notifications of the attempt are sent under the same lock, so whatever fn queues for a client
// is ordered with them.
func (s *AttemptService) WithView(ctx context.Context, attemptID string, userID uint, fn func(*AttemptView)) error {
	la, err := s.acquire(ctx, attemptID, userID)
	if err != nil {
		return err
	}
	defer la.mu.Unlock()

	fn(buildAttemptView(la.id, la.quizID, la.session))
	return nil
}

// SubmitAnswer commits the learner's choice for a question. A question that is already answered
// keeps its first answer and the result says so.
func (s *AttemptService) SubmitAnswer(ctx context.Context, attemptID string, userID uint, req *SubmitAnswerRequest) (*CommitView, error) {
	la, err := s.acquire(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	defer la.mu.Unlock()

	result, err := la.session.Commit(req.QuestionID, req.OptionID, userID)
	if err != nil {
		return nil, err
	}

	if result.Status == session.Accepted {
		if err := s.repo.RecordAnswer(ctx, attemptID, result.Answer); err != nil {
			// The in-memory ledger is now ahead of the database; drop it so the next request
			// rebuilds the attempt from what was actually stored.
			s.evict(la)
			return nil, err
		}
		s.storeState(ctx, la)
	}

	question, _ := la.session.Sequence.Question(req.QuestionID)
	view := &CommitView{
		Status:        result.Status,
		Answer:        result.Answer,
		IsCorrect:     question.CorrectOption != session.NoCorrectOption && result.Answer.OptionID == question.CorrectOption,
		CorrectOption: question.CorrectOption,
		Progress:      la.session.Progress(),
	}

	if result.Status == session.Accepted {
		log.WithFields(log.Fields{
			"attempt_id":  attemptID,
			"question_id": req.QuestionID,
			"option_id":   req.OptionID,
		}).Info("Answer committed")
		s.notify(attemptID, "answer_committed", view)
	} else {
		log.WithFields(log.Fields{
			"attempt_id":  attemptID,
			"question_id": req.QuestionID,
		}).Debug("Question already answered, keeping first answer")
	}
	return view, nil
}

func (s *AttemptService) Seek(ctx context.Context, attemptID string, userID uint, index int) (*AttemptView, error) {
	return s.move(ctx, attemptID, userID, func(c *session.Cursor) error { return c.Seek(index) })
}

func (s *AttemptService) Next(ctx context.Context, attemptID string, userID uint) (*AttemptView, error) {
	return s.move(ctx, attemptID, userID, (*session.Cursor).Next)
}

func (s *AttemptService) Prev(ctx context.Context, attemptID string, userID uint) (*AttemptView, error) {
	return s.move(ctx, attemptID, userID, (*session.Cursor).Prev)
}

func (s *AttemptService) move(ctx context.Context, attemptID string, userID uint, step func(*session.Cursor) error) (*AttemptView, error) {
	la, err := s.acquire(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	defer la.mu.Unlock()

	if err := step(la.session.Cursor); err != nil {
		return nil, err
	}
	s.storeState(ctx, la)

	view := buildAttemptView(la.id, la.quizID, la.session)
	s.notify(attemptID, "cursor_moved", map[string]interface{}{
		"current_index": view.CurrentIndex,
		"jump_table":    view.JumpTable,
	})
	return view, nil
}

// acquire returns the attempt locked for the caller, loading it into memory when needed.
func (s *AttemptService) acquire(ctx context.Context, attemptID string, userID uint) (*liveAttempt, error) {
	for {
		s.mutex.Lock()
		la, ok := s.live[attemptID]
		s.mutex.Unlock()

		if !ok {
			loaded, err := s.rehydrate(ctx, attemptID)
			if err != nil {
				return nil, err
			}
			s.mutex.Lock()
			if la, ok = s.live[attemptID]; !ok {
				la = loaded
				s.live[attemptID] = la
			}
			s.mutex.Unlock()
		}

		if la.userID != userID {
			return nil, errors.Wrapf(ErrAttemptForbidden, "attempt %s", attemptID)
		}
		la.mu.Lock()
		if !la.stale {
			return la, nil
		}
		la.mu.Unlock()
	}
}

// rehydrate rebuilds an attempt. Ownership and answers always come from the database; the
// cached state only contributes the cursor position, since it may lag behind stored answers.
func (s *AttemptService) rehydrate(ctx context.Context, attemptID string) (*liveAttempt, error) {
	attempt, err := s.repo.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	answers, err := s.repo.Answers(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.LoadQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	sess := session.New(quiz)
	if err := sess.Ledger.Restore(answers); err != nil {
		return nil, errors.Wrapf(err, "restore answers of attempt %s", attemptID)
	}

	state, err := s.states.Load(ctx, attemptID)
	if err != nil {
		log.Warnf("Could not read cached state of attempt %s, cursor starts over: %v", attemptID, err)
		state = nil
	}
	if state != nil && sess.Sequence.Len() > 0 {
		if err := sess.Cursor.Seek(state.Snapshot.Index); err != nil {
			log.Warnf("Cached cursor of attempt %s no longer fits the quiz, cursor starts over: %v", attemptID, err)
		}
	}

	log.Printf("Attempt %s restored with %d answers at index %d", attemptID, sess.Ledger.Count(), sess.Cursor.Current())
	return &liveAttempt{
		id:      attempt.ID,
		quizID:  attempt.QuizID,
		userID:  attempt.UserID,
		session: sess,
	}, nil
}

// evict drops an attempt from memory. The caller holds la.mu.
func (s *AttemptService) evict(la *liveAttempt) {
	la.stale = true
	s.mutex.Lock()
	if s.live[la.id] == la {
		delete(s.live, la.id)
	}
	s.mutex.Unlock()
}

// storeState caches the attempt. Failures are logged only; rehydrate reads answers from the
// database and never trusts the cached ones.
func (s *AttemptService) storeState(ctx context.Context, la *liveAttempt) {
	if err := s.states.Save(ctx, la.state()); err != nil {
		log.Errorf("Failed to store state of attempt %s: %v", la.id, err)
	}
}

func (s *AttemptService) notify(attemptID, messageType string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.BroadcastToAttempt(attemptID, messageType, payload)
	}
}
