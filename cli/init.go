package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/redstreet/fava-investor/performance"
)

// InitCmd writes a sample configuration file.
type InitCmd struct {
	Path  string `help:"Where to write the configuration." arg:"" default:"investor.yaml" type:"path"`
	Force bool   `help:"Overwrite an existing file without asking." short:"f"`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	if _, err := os.Stat(cmd.Path); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q exists. Overwrite it?", cmd.Path))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("file exists: %s (use --force to overwrite)", cmd.Path)
		}
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to access file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cmd.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(cmd.Path, []byte(performance.SampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Wrote %s", pathStyle.Render(cmd.Path)))
	return nil
}
