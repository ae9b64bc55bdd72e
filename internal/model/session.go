package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question length limits for input validation
const (
	MinQuestionLength = 5
	MaxQuestionLength = 10000
)

// InputValidationError is returned when a user question fails validation.
// It is fatal to the request and surfaced verbatim to the caller.
type InputValidationError struct {
	Reason string
}

func (e *InputValidationError) Error() string {
	return e.Reason
}

// Session tracks one research run and the artifacts each stage produced
type Session struct {
	ID        string    `json:"session_id"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`

	// Filled progressively by pipeline stages
	SubQuestions   []string  `json:"sub_questions,omitempty"`
	Sources        []*Source `json:"sources,omitempty"`
	Claims         []Claim   `json:"claims,omitempty"`
	Gaps           []string  `json:"gaps,omitempty"`
	Clarifications []string  `json:"clarifications,omitempty"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// SessionStore holds the sessions created during this process lifetime.
// The pipeline runs fully synchronously per request, so access is
// single-threaded and no locking is needed.
type SessionStore struct {
	sessions map[string]*Session
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// ValidateQuestion cleans and validates a user question.
// Returns the trimmed question or an *InputValidationError.
func ValidateQuestion(question string) (string, error) {
	cleaned := strings.TrimSpace(question)

	if cleaned == "" {
		return "", &InputValidationError{
			Reason: "please provide a question, empty input is not allowed",
		}
	}
	if len(cleaned) < MinQuestionLength {
		return "", &InputValidationError{
			Reason: fmt.Sprintf("question is too short, provide at least %d characters", MinQuestionLength),
		}
	}
	if len(cleaned) > MaxQuestionLength {
		return "", &InputValidationError{
			Reason: fmt.Sprintf("question is too long (%d chars), maximum is %d", len(cleaned), MaxQuestionLength),
		}
	}

	return cleaned, nil
}

// NewSessionID generates a session identifier of the form
// run_YYYY_MM_DD_<8 hex chars>. Unique with overwhelming probability,
// not guaranteed.
func NewSessionID(now time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("run_%s_%s", now.Format("2006_01_02"), hex)
}

// Create validates the question and registers a new session.
// No session is created when validation fails.
func (s *SessionStore) Create(question string) (*Session, error) {
	cleaned, err := ValidateQuestion(question)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        NewSessionID(now),
		Question:  cleaned,
		CreatedAt: now,
	}
	s.sessions[session.ID] = session

	return session, nil
}

// Get retrieves a session by ID, or nil if unknown
func (s *SessionStore) Get(id string) *Session {
	return s.sessions[id]
}

// List returns all sessions, most recent first
func (s *SessionStore) List() []*Session {
	out := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of recorded sessions
func (s *SessionStore) Count() int {
	return len(s.sessions)
}
