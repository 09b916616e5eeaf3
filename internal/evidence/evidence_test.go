package evidence_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/varsonalia/internal/evidence"
	"github.com/playperu/varsonalia/internal/game"
)

// pngBytes is the PNG signature followed by padding; enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

var gifBytes = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 64)...)

func newStore(t *testing.T, maxBytes int64) *evidence.Store {
	t.Helper()
	s, err := evidence.New(t.TempDir(), maxBytes)
	require.NoError(t, err)
	return s
}

func TestSave(t *testing.T) {
	s := newStore(t, 1<<20)

	ref, err := s.Save(context.Background(), 1, "A", bytes.NewReader(pngBytes), ".PNG")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1/task_A.png", ref)

	got, err := os.ReadFile(filepath.Join(s.Dir(), "1", "task_A.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestSaveReplacesPreviousUpload(t *testing.T) {
	s := newStore(t, 1<<20)
	ctx := context.Background()

	_, err := s.Save(ctx, 2, "K", bytes.NewReader(pngBytes), ".png")
	require.NoError(t, err)
	ref, err := s.Save(ctx, 2, "K", bytes.NewReader(gifBytes), ".gif")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2/task_K.gif", ref)

	entries, err := os.ReadDir(filepath.Join(s.Dir(), "2"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "task_K.gif", entries[0].Name())
}

func TestDiscardKeepsStoredEvidence(t *testing.T) {
	s := newStore(t, 1<<20)
	ctx := context.Background()

	_, err := s.Save(ctx, 3, "K", bytes.NewReader(pngBytes), ".png")
	require.NoError(t, err)

	for _, ext := range []string{".png", ".gif"} {
		u, err := s.Stage(ctx, 3, "K", bytes.NewReader(gifBytes), ext)
		require.NoError(t, err)
		require.NoError(t, u.Discard())
	}

	entries, err := os.ReadDir(filepath.Join(s.Dir(), "3"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "task_K.png", entries[0].Name())

	got, err := os.ReadFile(filepath.Join(s.Dir(), "3", "task_K.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestStageLeavesStoredEvidenceUntilCommit(t *testing.T) {
	s := newStore(t, 1<<20)
	ctx := context.Background()

	_, err := s.Save(ctx, 4, "K", bytes.NewReader(pngBytes), ".png")
	require.NoError(t, err)

	u, err := s.Stage(ctx, 4, "K", bytes.NewReader(gifBytes), ".gif")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/4/task_K.gif", u.Ref())
	assert.FileExists(t, filepath.Join(s.Dir(), "4", "task_K.png"))
	assert.NoFileExists(t, filepath.Join(s.Dir(), "4", "task_K.gif"))

	require.NoError(t, u.Commit())
	assert.NoFileExists(t, filepath.Join(s.Dir(), "4", "task_K.png"))
	assert.FileExists(t, filepath.Join(s.Dir(), "4", "task_K.gif"))
}

func TestSaveRejections(t *testing.T) {
	tests := []struct {
		name    string
		team    game.TeamID
		task    game.TaskID
		body    []byte
		ext     string
		wantErr error
	}{
		{name: "unknown team", team: 7, task: "A", body: pngBytes, ext: ".png", wantErr: game.ErrNotFound},
		{name: "path in task id", team: 1, task: "../A", body: pngBytes, ext: ".png", wantErr: game.ErrInvalidInput},
		{name: "extension not allowed", team: 1, task: "A", body: pngBytes, ext: ".exe", wantErr: evidence.ErrUnsupportedType},
		{name: "no extension", team: 1, task: "A", body: pngBytes, ext: "", wantErr: evidence.ErrUnsupportedType},
		{name: "not an image", team: 1, task: "A", body: []byte("<html>hello</html>"), ext: ".png", wantErr: evidence.ErrUnsupportedType},
		{name: "empty file", team: 1, task: "A", body: nil, ext: ".png", wantErr: evidence.ErrUnsupportedType},
		{name: "too large", team: 1, task: "A", body: append(pngBytes, make([]byte, 200)...), ext: ".png", wantErr: evidence.ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, 128)
			_, err := s.Save(context.Background(), tt.team, tt.task, bytes.NewReader(tt.body), tt.ext)
			assert.ErrorIs(t, err, tt.wantErr)

			entries, _ := os.ReadDir(filepath.Join(s.Dir(), "1"))
			for _, e := range entries {
				assert.False(t, strings.HasPrefix(e.Name(), "task_"), "rejected upload stored as %s", e.Name())
				assert.False(t, strings.HasPrefix(e.Name(), ".upload-"), "temp file left behind")
			}
		})
	}
}

func TestPurgeAll(t *testing.T) {
	s := newStore(t, 1<<20)
	ctx := context.Background()
	for team := game.TeamID(1); team <= 3; team++ {
		_, err := s.Save(ctx, team, "A", bytes.NewReader(pngBytes), ".png")
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "keep.txt"), []byte("x"), 0o644))

	require.NoError(t, s.PurgeAll(ctx))

	for team := 1; team <= 3; team++ {
		entries, err := os.ReadDir(filepath.Join(s.Dir(), string(rune('0'+team))))
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
	assert.FileExists(t, filepath.Join(s.Dir(), "keep.txt"), "only team directories are purged")
}

func TestPurgeAllContinuesAfterFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs enforced directory permissions")
	}
	s := newStore(t, 1<<20)
	ctx := context.Background()
	_, err := s.Save(ctx, 1, "A", bytes.NewReader(pngBytes), ".png")
	require.NoError(t, err)
	_, err = s.Save(ctx, 2, "A", bytes.NewReader(pngBytes), ".png")
	require.NoError(t, err)

	locked := filepath.Join(s.Dir(), "1")
	require.NoError(t, os.Chmod(locked, 0o500))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	err = s.PurgeAll(ctx)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(s.Dir(), "2", "task_A.png"), "other teams are still purged")
}

func TestCheck(t *testing.T) {
	s := newStore(t, 1)
	assert.NoError(t, s.Check(context.Background()))
}
