package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/deps"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/preflight"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/speech"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/staging"
)

// level ranks a report row. Rows at levelFail make the command exit non-zero.
type level int

const (
	levelOK level = iota
	levelWarn
	levelFail
)

var levelStyles = map[level]struct{ tag, color string }{
	levelOK:   {"OK", "\x1b[32m"},
	levelWarn: {"WARN", "\x1b[33m"},
	levelFail: {"FAIL", "\x1b[31m"},
}

const (
	ansiReset   = "\x1b[0m"
	ansiHeading = "\x1b[1;34m"
	labelWidth  = 18
)

// row is one labelled line of a check report.
type row struct {
	label  string
	level  level
	detail string
}

func (r row) format(colorize bool) string {
	style := levelStyles[r.level]
	line := fmt.Sprintf("  %-*s %-4s %s", labelWidth, r.label, style.tag, r.detail)
	line = strings.TrimRight(line, " ")
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

func dependencyRow(dep deps.Status) row {
	if dep.Available {
		detail := dep.Command
		if dep.Version != "" {
			detail = fmt.Sprintf("%s (%s)", dep.Command, dep.Version)
		}
		return row{label: dep.Name, level: levelOK, detail: detail}
	}
	detail := strings.TrimSpace(dep.Detail)
	if detail == "" {
		detail = "not available"
	}
	if dep.Optional {
		return row{label: dep.Name, level: levelWarn, detail: detail + " (optional)"}
	}
	return row{label: dep.Name, level: levelFail, detail: detail}
}

func preflightRow(result preflight.Result) row {
	if result.Passed {
		return row{label: result.Name, level: levelOK, detail: result.Detail}
	}
	return row{label: result.Name, level: levelFail, detail: result.Detail}
}

// placeholderRow reports a section rendered as silence; the narration still
// completed, so it is a warning.
func placeholderRow(failure speech.Outcome) row {
	label := fmt.Sprintf("section %d", failure.Section.OrderIndex)
	if title := strings.TrimSpace(failure.Section.Title); title != "" {
		label = fmt.Sprintf("%s %q", label, title)
	}
	detail := "silent placeholder"
	if failure.Err != nil {
		detail += ": " + failure.Err.Error()
	}
	return row{label: label, level: levelWarn, detail: detail}
}

func cleanupRow(failure staging.CleanupError) row {
	return row{label: failure.Path, level: levelFail, detail: failure.Error.Error()}
}

// reporter writes rows to a terminal or a plain stream.
type reporter struct {
	w        io.Writer
	colorize bool
	failed   int
}

func newReporter(w io.Writer) *reporter {
	return &reporter{w: w, colorize: isTerminal(w)}
}

func (r *reporter) heading(title string) {
	line := "» " + strings.TrimSpace(title)
	if r.colorize {
		line = ansiHeading + line + ansiReset
	}
	fmt.Fprintln(r.w, line)
}

func (r *reporter) rows(rows ...row) {
	for _, item := range rows {
		if item.level == levelFail {
			r.failed++
		}
		fmt.Fprintln(r.w, item.format(r.colorize))
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
