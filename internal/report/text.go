// Package report renders srcfmt progress and results for the console.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andyballingall/srcfmt/internal/format"
	"github.com/andyballingall/srcfmt/internal/fsh"
)

// TextReporter writes plain text output, optionally coloured with ANSI codes.
type TextReporter struct {
	UseColour bool
	// Cwd is the directory file paths are shown relative to. Empty means the
	// process working directory.
	Cwd string

	w io.Writer
}

const (
	colReset  = "\033[0m"
	colBold   = "\033[1m"
	colDim    = "\033[2m"
	colRed    = "\033[31m"
	colGreen  = "\033[32m"
	colYellow = "\033[33m"
	colBlue   = "\033[34m"
	colCyan   = "\033[36m"
)

const ruleWidth = 60

func NewTextReporter(w io.Writer, useColour bool) *TextReporter {
	return &TextReporter{w: w, UseColour: useColour}
}

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

// Section prints a title framed by double rules.
func (tr *TextReporter) Section(title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(tr.w, "\n%s\n", tr.cs(colBold+colCyan, rule))
	fmt.Fprintf(tr.w, "%s\n", tr.cs(colBold+colCyan, "  "+title))
	fmt.Fprintf(tr.w, "%s\n", tr.cs(colBold+colCyan, rule))
}

func (tr *TextReporter) Sep() {
	fmt.Fprintf(tr.w, "%s\n", tr.cs(colDim, strings.Repeat("-", ruleWidth)))
}

func (tr *TextReporter) KV(key, value string) {
	fmt.Fprintf(tr.w, "%s %s\n", tr.cs(colBold, key+":"), value)
}

func (tr *TextReporter) Info(msg string)    { tr.tagged(colBlue, "INFO", msg) }
func (tr *TextReporter) Success(msg string) { tr.tagged(colGreen, "SUCCESS", msg) }
func (tr *TextReporter) Warn(msg string)    { tr.tagged(colYellow, "WARN", msg) }
func (tr *TextReporter) Error(msg string)   { tr.tagged(colRed, "ERROR", msg) }

func (tr *TextReporter) tagged(c, tag, msg string) {
	fmt.Fprintf(tr.w, "%s %s\n", tr.cs(c, "["+tag+"]"), msg)
}

// Header prints the title block shown before discovery.
func (tr *TextReporter) Header(formatDirs string) {
	tr.Section("Code Formatter")
	tr.KV("Format dirs", formatDirs)
}

// Files prints the number of files selected and, when there are any, lists them.
func (tr *TextReporter) Files(files []string) {
	tr.KV("Files detected", fmt.Sprint(len(files)))
	tr.Sep()

	if len(files) == 0 {
		tr.Info("No files to format")
		return
	}

	tr.Info("Formatting files:")
	for _, f := range files {
		fmt.Fprintf(tr.w, "  %s\n", tr.display(f))
	}
}

// Results prints the outcome of a formatting run.
func (tr *TextReporter) Results(results []format.Result) {
	if len(results) == 0 {
		return
	}
	tr.Sep()

	failed := format.Failures(results)
	if len(failed) == 0 {
		tr.Success("Formatting completed")
		return
	}

	tr.Warn("Some files failed to format:")
	for _, res := range failed {
		fmt.Fprintf(tr.w, "  %s: %s\n", res.Path, tr.cs(colRed, reason(res.Err)))
	}
}

// display returns path relative to the working directory, or path itself when no
// relative form exists.
func (tr *TextReporter) display(path string) string {
	cwd := tr.Cwd
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return path
		}
	}
	return fsh.RelOrAbs(path, cwd)
}

func reason(err error) string {
	var te *format.ToolError
	if errors.As(err, &te) {
		return te.Reason()
	}
	return err.Error()
}
