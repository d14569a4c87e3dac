package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cexll/devbot/internal/changeset"
	"github.com/cexll/devbot/internal/protocol"
	"github.com/cexll/devbot/internal/tools"
)

// FileSystem is the file surface the dispatcher needs.
type FileSystem interface {
	Read(path string) (string, error)
	Write(path, content string) error
	List(path string) (string, error)
}

// Shell runs one command and reports its structured outcome.
type Shell interface {
	Run(ctx context.Context, command string) (tools.ExecResult, error)
}

// Dispatcher executes parsed commands against the file system and
// shell, rendering results into the tool-output text the model expects.
type Dispatcher struct {
	fs    FileSystem
	shell Shell
}

// NewDispatcher returns a Dispatcher over the given collaborators.
func NewDispatcher(fs FileSystem, shell Shell) *Dispatcher {
	return &Dispatcher{fs: fs, shell: shell}
}

// Execute runs one command and returns its tool output. Collaborator
// failures come back as conversation text, never as errors: the model
// reads them on the next turn and self-corrects.
func (d *Dispatcher) Execute(ctx context.Context, cmd protocol.Command, changes *changeset.ChangeSet) string {
	switch c := cmd.(type) {
	case protocol.ReadFile:
		content, err := d.fs.Read(c.Path)
		if err != nil {
			return fmt.Sprintf("Error reading file %s: %v", c.Path, err)
		}
		return content

	case protocol.ListFiles:
		listing, err := d.fs.List(c.Path)
		if err != nil {
			return fmt.Sprintf("Error listing files: %v", err)
		}
		return listing

	case protocol.WriteFile:
		// Probe before writing: an unreadable path counts as created,
		// anything else as modified. The first write decides for good.
		if _, err := d.fs.Read(c.Path); err != nil {
			changes.RecordCreated(c.Path)
		} else {
			changes.RecordModified(c.Path)
		}
		if err := d.fs.Write(c.Path, c.Content); err != nil {
			return fmt.Sprintf("Error writing file %s: %v", c.Path, err)
		}
		return fmt.Sprintf("Successfully wrote to %s", c.Path)

	case protocol.ExecCmd:
		return d.execCommand(ctx, c.Command)

	case protocol.Malformed:
		return c.Diagnostic
	}

	// Done is terminal and handled by the loop before dispatch.
	return ""
}

func (d *Dispatcher) execCommand(ctx context.Context, command string) string {
	result, err := d.shell.Run(ctx, command)
	if err != nil {
		return fmt.Sprintf("Error executing command: %v", err)
	}
	if result.TimedOut {
		return "Error: Command timed out."
	}

	if result.ExitCode == 0 && strings.TrimSpace(result.Stdout) == "" && strings.TrimSpace(result.Stderr) == "" {
		return "Command executed with no output."
	}

	output := fmt.Sprintf("STDOUT:\n%s\nSTDERR:\n%s", result.Stdout, result.Stderr)
	if result.ExitCode != 0 {
		output += fmt.Sprintf("\nExit Code: %d", result.ExitCode)
	}
	return output
}
