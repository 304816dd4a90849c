package reporting

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Reporter renders a finished run to an output.
type Reporter interface {
	// Write renders the report. It may be called once.
	Write(report *RunReport) error
	// Close flushes and closes any underlying resources (e.g., file handles).
	Close() error
}

// Supported formats.
const (
	FormatHTML  = "html"
	FormatJSON  = "json"
	FormatJUnit = "junit"
)

// ReportFileStamp is the timestamp layout used in report file names.
const ReportFileStamp = "20060102-150405"

// Supported reports whether format names a known reporter.
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case FormatHTML, FormatJSON, FormatJUnit:
		return true
	}
	return false
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format writing to outputPath ("" or "stdout" for stdout).
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch strings.ToLower(format) {
	case FormatHTML:
		return NewHTMLReporter(writer), nil
	case FormatJSON:
		return NewJSONReporter(writer), nil
	case FormatJUnit:
		return NewJUnitReporter(writer), nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FileName returns the report file name for format, e.g. TestReport-20260309-140502.html.
func FileName(format string, at time.Time) string {
	ext := strings.ToLower(format)
	if ext == FormatJUnit {
		ext = "xml"
	}
	return fmt.Sprintf("TestReport-%s.%s", at.Format(ReportFileStamp), ext)
}

// WriteAll renders report in every format concurrently into dir and returns the
// paths written, in the order of formats.
func WriteAll(ctx context.Context, dir string, formats []string, report *RunReport, at time.Time) ([]string, error) {
	for _, format := range formats {
		if !Supported(format) {
			return nil, fmt.Errorf("unsupported output format: %s", format)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	paths := make([]string, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		path := filepath.Join(dir, FileName(format, at))
		paths[i] = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeOne(format, path, report)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeOne(format, path string, report *RunReport) error {
	r, err := New(format, path)
	if err != nil {
		return err
	}
	if err := r.Write(report); err != nil {
		r.Close()
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}
	return r.Close()
}
