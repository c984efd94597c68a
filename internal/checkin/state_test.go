package checkin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkin_state.json")
	return NewFileStore(path), path
}

func TestLoadMissingFileReturnsZeroState(t *testing.T) {
	s, _ := tempStore(t)
	st, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, State{}, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, path := tempStore(t)

	prompt := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	reply := prompt.Add(5 * time.Minute)
	want := State{
		ChatID:          "123456",
		LastPromptAt:    &prompt,
		LastReplyAt:     &reply,
		PendingText:     "walked the dog?",
		PendingDeleteID: 7,
	}
	require.NoError(t, s.Save(want))

	// A fresh store instance stands in for a restarted process.
	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadCorruptFileReturnsZeroState(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, State{}, st)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, s.Save(State{ChatID: "1"}))

	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestRegisterFirstWriterWins(t *testing.T) {
	s, _ := tempStore(t)

	var st State
	require.NoError(t, s.Register(&st, "123"))
	require.Equal(t, "123", st.ChatID)

	// Same id is idempotent, a different one is rejected.
	require.NoError(t, s.Register(&st, "123"))
	require.ErrorIs(t, s.Register(&st, "456"), ErrAlreadyRegistered)
	require.Equal(t, "123", st.ChatID)

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "123", got.ChatID)
}

func TestAnswered(t *testing.T) {
	prompt := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	before := prompt.Add(-time.Minute)
	after := prompt.Add(time.Minute)

	require.True(t, State{}.Answered())
	require.False(t, State{LastPromptAt: &prompt}.Answered())
	require.False(t, State{LastPromptAt: &prompt, LastReplyAt: &before}.Answered())
	require.True(t, State{LastPromptAt: &prompt, LastReplyAt: &after}.Answered())
}
