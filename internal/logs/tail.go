package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the log file the vidpipe logger writes under log_dir.
const FileName = "vidpipe.log"

// Path returns the log file location inside logDir.
func Path(logDir string) string {
	return filepath.Join(logDir, FileName)
}

// TailOptions controls a Tail call. A negative Offset reads the last Limit
// lines; otherwise reading resumes at Offset.
type TailOptions struct {
	Offset int64
	Limit  int
	// Match keeps only lines containing the substring.
	Match string
	// Wait bounds how long Tail polls for new lines when none are ready.
	Wait time.Duration
}

// TailResult holds the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from the log at path. A missing file yields no lines.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	result := TailResult{Offset: opts.Offset}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			result.Offset = 0
			return result, nil
		}
		return result, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return result, fmt.Errorf("log path %q is a directory", path)
	}

	offset := opts.Offset
	limit := opts.Limit
	if offset < 0 {
		offset = 0
	} else {
		if offset > info.Size() {
			// Truncated or rotated; start over.
			offset = 0
		}
		limit = 0
	}

	result.Lines, result.Offset, err = readLines(path, offset, limit, opts.Match)
	if err != nil {
		return result, err
	}
	if opts.Offset < 0 && opts.Limit <= 0 {
		result.Lines = nil
	}
	if len(result.Lines) == 0 && opts.Wait > 0 {
		return waitForLines(ctx, path, result.Offset, opts)
	}
	return result, nil
}

// readLines scans from offset. With limit > 0 only the last limit matching
// lines are kept.
func readLines(path string, offset int64, limit int, match string) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	var lines []string
	consumed := offset
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
		if !strings.HasSuffix(line, "\n") {
			// Leave a partial trailing line for the next read.
			break
		}
		consumed += int64(len(line))
		text := strings.TrimRight(line, "\r\n")
		if match != "" && !strings.Contains(text, match) {
			continue
		}
		lines = append(lines, text)
		if limit > 0 && len(lines) > limit {
			lines = lines[len(lines)-limit:]
		}
	}
	return lines, consumed, nil
}

func waitForLines(ctx context.Context, path string, offset int64, opts TailOptions) (TailResult, error) {
	deadline := time.Now().Add(opts.Wait)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	result := TailResult{Offset: offset}
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
		lines, next, err := readLines(path, result.Offset, 0, opts.Match)
		if err != nil {
			return result, err
		}
		result.Offset = next
		if len(lines) > 0 {
			result.Lines = lines
			return result, nil
		}
		if time.Now().After(deadline) {
			return result, nil
		}
	}
}
