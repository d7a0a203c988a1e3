// Package omnifocus drives the OmniFocus application through its JavaScript
// for Automation (JXA) interface. Each operation is a small embedded script
// run under osascript: arguments cross as JSON in the OSA_ARGS environment
// variable, the script arrives on stdin, and the reply is JSON on stdout.
package omnifocus

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

//go:embed jxa
var scripts embed.FS

const osascriptPath = "/usr/bin/osascript"

// Bridge executes the embedded JXA scripts.
type Bridge struct {
	command string
}

// NewBridge creates a Bridge using the system osascript binary.
func NewBridge() *Bridge {
	return &Bridge{command: osascriptPath}
}

// SetCommand overrides the osascript path for testing purposes.
func (b *Bridge) SetCommand(path string) {
	b.command = path
}

// run executes one embedded script with args marshalled into OSA_ARGS and
// returns the script's stdout.
func (b *Bridge) run(ctx context.Context, script string, args any) ([]byte, error) {
	code, err := scripts.ReadFile("jxa/" + script)
	if err != nil {
		return nil, fmt.Errorf("reading embedded script %s: %w", script, err)
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshalling arguments for %s: %w", script, err)
	}

	cmd := exec.CommandContext(ctx, b.command, "-l", "JavaScript")
	cmd.Env = append(os.Environ(), "OSA_ARGS="+string(payload))
	cmd.Stdin = bytes.NewReader(code)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running %s: %w: %s", script, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("running %s: %w", script, err)
	}
	return bytes.TrimSpace(out), nil
}
