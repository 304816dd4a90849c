package reporting

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ScreenshotStamp is the timestamp layout used in screenshot file names.
const ScreenshotStamp = "20060102_150405"

// fileNameSanitizer replaces anything unsafe in a file name with an underscore.
var fileNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// Screenshotter is the slice of a browser session needed for failure capture.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// ArtifactWriter stores failure screenshots.
type ArtifactWriter struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

func NewArtifactWriter(dir string, logger *zap.Logger) *ArtifactWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactWriter{dir: dir, logger: logger.Named("artifacts"), now: time.Now}
}

// ScreenshotName returns "<name>_<YYYYmmdd_HHMMSS>.png" with name made file-safe.
func ScreenshotName(name string, at time.Time) string {
	return fmt.Sprintf("%s_%s.png", fileNameSanitizer.ReplaceAllString(name, "_"), at.Format(ScreenshotStamp))
}

// CaptureFailure screenshots the session and writes it under the artifact directory.
// It returns the written path.
func (a *ArtifactWriter) CaptureFailure(ctx context.Context, session Screenshotter, name string) (string, error) {
	data, err := session.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	path, err := writeExclusive(filepath.Join(a.dir, ScreenshotName(name, a.now())), data)
	if err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	a.logger.Info("Screenshot saved.", zap.String("scenario", name), zap.String("path", path))
	return path, nil
}

// maxNameAttempts bounds the numeric suffixes tried for one screenshot name.
const maxNameAttempts = 1000

// writeExclusive writes data to path, or to path with a _1, _2, ... suffix before the
// extension when the name is taken. It never overwrites an existing file.
func writeExclusive(path string, data []byte) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 0; i < maxNameAttempts; i++ {
		candidate := path
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return candidate, f.Close()
	}
	return "", fmt.Errorf("no free file name for %s after %d attempts", path, maxNameAttempts)
}
