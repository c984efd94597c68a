// Package checkin tracks the single registered conversation and decides when
// to prompt it for an activity report.
package checkin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var ErrAlreadyRegistered = errors.New("a different chat is already registered")

// State is the persisted check-in state. There is at most one live
// conversation per deployment.
type State struct {
	// ChatID is set on first registration and stable afterwards.
	ChatID string `json:"chat_id,omitempty"`
	// LastPromptAt is the time of the outstanding prompt, nil when none.
	LastPromptAt *time.Time `json:"last_prompt_at,omitempty"`
	// LastReplyAt is the time the last reply was accepted.
	LastReplyAt *time.Time `json:"last_reply_at,omitempty"`
	// PendingText accumulates a reply that needed clarification.
	PendingText string `json:"pending_checkin,omitempty"`
	// PendingDeleteID is a delete awaiting the user's confirmation.
	PendingDeleteID int64 `json:"pending_delete_id,omitempty"`
}

// Answered reports whether the outstanding prompt, if any, has been replied to.
func (s State) Answered() bool {
	if s.LastPromptAt == nil {
		return true
	}
	return s.LastReplyAt != nil && !s.LastReplyAt.Before(*s.LastPromptAt)
}

// FileStore persists State as a small JSON file. Saves go through a temp file
// and a rename so a reader never observes a partial write.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the last saved state. A missing or unreadable file yields the
// zero state: losing check-in state is recoverable, refusing to start is not.
func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("error reading state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, nil
	}
	return st, nil
}

func (s *FileStore) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing state file: %w", err)
	}
	return nil
}

// Register binds the conversation. The first writer wins: once a chat id is
// stored, registration for a different id fails with ErrAlreadyRegistered.
func (s *FileStore) Register(st *State, chatID string) error {
	if st.ChatID != "" && st.ChatID != chatID {
		return ErrAlreadyRegistered
	}
	st.ChatID = chatID
	return s.Save(*st)
}
