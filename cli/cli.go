// Package cli implements the investor command line: loading a ledger,
// running split reports over it and rendering them for the terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/redstreet/fava-investor/ast"
	"github.com/redstreet/fava-investor/loader"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

// promptYesNo asks a yes/no question. Without a terminal on stdin the answer
// is no.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool
	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

const stdinName = "<stdin>"

// FileOrStdin is a ledger argument: a path, or "-" (or nothing) for stdin.
// Stdin is read once, when the argument is decoded or first loaded.
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}
	if filename == "-" || filename == "" {
		return f.readStdin()
	}
	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinName
	f.Contents = contents
	return nil
}

// IsStdin reports whether the ledger comes from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == stdinName
}

// Path returns the absolute path of the ledger file, or "<stdin>".
func (f *FileOrStdin) Path() string {
	if f.IsStdin() {
		return f.Filename
	}
	abs, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return abs
}

// Load parses the ledger, following includes for files. It returns the
// merged tree and every file read.
func (f *FileOrStdin) Load(ctx context.Context) (*ast.AST, []string, error) {
	if f.Filename == "" {
		if err := f.readStdin(); err != nil {
			return nil, nil, err
		}
	}

	ldr := loader.New(loader.WithFollowIncludes())
	if f.IsStdin() {
		tree, err := ldr.LoadBytes(ctx, f.Filename, f.Contents)
		return tree, nil, err
	}
	result, err := ldr.Load(ctx, f.Filename)
	if err != nil {
		return nil, nil, err
	}
	return result.AST, result.Files(), nil
}
