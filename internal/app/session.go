package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionState tracks where a document session is in its lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateUploading
	StateSummarized
	StateAwaitingAnswer
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateSummarized:
		return "ready"
	case StateAwaitingAnswer:
		return "answering"
	}
	return "unknown"
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleError     Role = "error"
)

type ChatMessage struct {
	ID   string
	Role Role
	Text string
	Time time.Time
}

// Guard errors. Callers treat these as advisory conditions, not failures.
var (
	ErrUploadInFlight = errors.New("an upload is already in progress")
	ErrSessionActive  = errors.New("a document is already loaded; start a new session first")
	ErrChatDisabled   = errors.New("upload a document before asking questions")
	ErrRevealRunning  = errors.New("an answer is still being written")
	ErrEmptyQuestion  = errors.New("question is empty")
)

const (
	// ProgressFloor is where the simulated upload bar starts and where it
	// returns after a failed upload or a session reset.
	ProgressFloor = 10.0
	// ProgressCap is the highest value the decorative ramp may reach before
	// the network response has settled. Only CompleteUpload hits 100.
	ProgressCap = 90.0

	welcomeText      = "Welcome to DocuChat. Open a document with /open <path> to get started."
	summaryReadyText = "Document processed. Ask me anything about it."
)

// NoAnswerFallback is shown when the backend replies without an answer field.
const NoAnswerFallback = "I couldn't find an answer to that."

// AskFailedFallback terminates the conversation turn when the ask request
// fails; the chat always gets a final assistant message.
const AskFailedFallback = "Something went wrong while answering. Please try again."

// Session owns the orchestration state for one document-chat session:
// the lifecycle state, the decorative upload progress, the append-only
// message log, and the single-reveal flag. It performs no I/O and is not
// safe for concurrent use; the TUI event loop is its only caller.
type Session struct {
	state     SessionState
	progress  float64
	messages  []ChatMessage
	summary   string
	docName   string
	revealing bool
}

func NewSession() *Session {
	s := &Session{
		state:    StateIdle,
		progress: ProgressFloor,
	}
	s.appendMessage(RoleSystem, welcomeText)
	return s
}

func (s *Session) State() SessionState  { return s.state }
func (s *Session) Progress() float64    { return s.progress }
func (s *Session) Summary() string      { return s.summary }
func (s *Session) DocumentName() string { return s.docName }
func (s *Session) Revealing() bool      { return s.revealing }

// Messages returns the log in append order. The slice is shared; callers
// must not mutate it.
func (s *Session) Messages() []ChatMessage { return s.messages }

func (s *Session) LastMessage() (ChatMessage, bool) {
	if len(s.messages) == 0 {
		return ChatMessage{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// ChatEnabled reports whether a question would be accepted right now.
func (s *Session) ChatEnabled() bool {
	return s.state == StateSummarized && !s.revealing
}

// BeginUpload moves Idle -> Uploading. A file selected while an upload is
// in flight is ignored, and a summarized session must be reset before a
// new document is loaded.
func (s *Session) BeginUpload(name string) error {
	switch s.state {
	case StateUploading:
		return ErrUploadInFlight
	case StateSummarized, StateAwaitingAnswer:
		return ErrSessionActive
	}
	s.state = StateUploading
	s.docName = name
	s.progress = ProgressFloor
	return nil
}

// AdvanceProgress raises the progress bar toward target. Progress never
// decreases during an upload and never passes ProgressCap before the
// response settles. Returns the value actually stored.
func (s *Session) AdvanceProgress(target float64) float64 {
	if s.state != StateUploading {
		return s.progress
	}
	if target > ProgressCap {
		target = ProgressCap
	}
	if target > s.progress {
		s.progress = target
	}
	return s.progress
}

// CompleteUpload moves Uploading -> Summarized and is the only path to 100%.
func (s *Session) CompleteUpload(summary string) {
	if s.state != StateUploading {
		return
	}
	s.state = StateSummarized
	s.summary = summary
	s.progress = 100
	s.appendMessage(RoleSystem, summaryReadyText)
}

// FailUpload moves Uploading -> Idle and restores the pre-upload state.
func (s *Session) FailUpload(err error) {
	if s.state != StateUploading {
		return
	}
	s.state = StateIdle
	s.docName = ""
	s.progress = ProgressFloor
	s.appendMessage(RoleError, fmt.Sprintf("Upload failed: %v", err))
}

// SubmitQuestion validates and records a question, moving the session to
// AwaitingAnswer. The returned string is the trimmed question to send.
func (s *Session) SubmitQuestion(text string) (string, error) {
	q := strings.TrimSpace(text)
	if q == "" {
		return "", ErrEmptyQuestion
	}
	if s.revealing {
		return "", ErrRevealRunning
	}
	if s.state != StateSummarized {
		return "", ErrChatDisabled
	}
	s.state = StateAwaitingAnswer
	s.appendMessage(RoleUser, q)
	return q, nil
}

// ResolveAnswer records the assistant's full answer and marks a reveal as
// running. The conversation always receives a terminal assistant turn, so
// failed asks are resolved here too, with a fallback string.
func (s *Session) ResolveAnswer(text string) {
	if s.state != StateAwaitingAnswer {
		return
	}
	s.revealing = true
	s.appendMessage(RoleAssistant, text)
}

// FinishReveal moves AwaitingAnswer -> Summarized once the typewriter is
// done, re-enabling submission.
func (s *Session) FinishReveal() {
	s.revealing = false
	if s.state == StateAwaitingAnswer {
		s.state = StateSummarized
	}
}

// Advise appends a lightweight system notice without touching state.
func (s *Session) Advise(text string) {
	s.appendMessage(RoleSystem, text)
}

// Clear empties the message log back to the pinned welcome entry. Calling
// it twice yields the same log as calling it once. Upload state, summary
// and progress are untouched.
func (s *Session) Clear() {
	s.messages = s.messages[:0]
	s.appendMessage(RoleSystem, welcomeText)
}

// Reset starts a new session: back to Idle, log cleared, progress at the
// floor, summary discarded, chat disabled.
func (s *Session) Reset() {
	s.state = StateIdle
	s.progress = ProgressFloor
	s.summary = ""
	s.docName = ""
	s.revealing = false
	s.Clear()
}

func (s *Session) appendMessage(role Role, text string) {
	s.messages = append(s.messages, ChatMessage{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
		Time: time.Now(),
	})
}
