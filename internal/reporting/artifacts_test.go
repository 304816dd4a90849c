package reporting

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type pngShooter []byte

func (p pngShooter) Screenshot(context.Context) ([]byte, error) { return p, nil }

func TestCaptureFailure_SameSanitizedNameKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, zaptest.NewLogger(t))
	at := time.Date(2026, 3, 9, 14, 5, 2, 0, time.UTC)
	w.now = func() time.Time { return at }

	first, err := w.CaptureFailure(context.Background(), pngShooter("first"), "autosuggestion_dropdown[Ind-India]")
	require.NoError(t, err)
	second, err := w.CaptureFailure(context.Background(), pngShooter("second"), "autosuggestion_dropdown(Ind-India)")
	require.NoError(t, err)
	third, err := w.CaptureFailure(context.Background(), pngShooter("third"), "autosuggestion_dropdown[Ind-India]")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "autosuggestion_dropdown_Ind-India_20260309_140502.png"), first)
	assert.Equal(t, filepath.Join(dir, "autosuggestion_dropdown_Ind-India_20260309_140502_1.png"), second)
	assert.Equal(t, filepath.Join(dir, "autosuggestion_dropdown_Ind-India_20260309_140502_2.png"), third)

	for path, want := range map[string]string{first: "first", second: "second", third: "third"} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestWriteExclusive_UnwritableDir(t *testing.T) {
	_, err := writeExclusive(filepath.Join(t.TempDir(), "missing", "shot.png"), []byte("x"))
	assert.Error(t, err)
}
