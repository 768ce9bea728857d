package adapters

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"appstream-builder/internal/ports"
)

// AppDataValidatorAdapter runs "<command> --relax <file>". A zero exit
// status means the file validated; otherwise every non-empty stdout line
// is a diagnostic.
type AppDataValidatorAdapter struct {
	Command string
}

func NewAppDataValidatorAdapter(command string) AppDataValidatorAdapter {
	return AppDataValidatorAdapter{Command: command}
}

func (a AppDataValidatorAdapter) Validate(ctx context.Context, path string) ([]string, error) {
	if strings.TrimSpace(a.Command) == "" {
		return nil, nil
	}
	cmd := exec.CommandContext(ctx, a.Command, "--relax", path)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	if err == nil {
		return nil, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to run AppData validator").
			WithCause(err)
	}
	var diagnostics []string
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			diagnostics = append(diagnostics, line)
		}
	}
	if len(diagnostics) == 0 {
		diagnostics = append(diagnostics, exitErr.Error())
	}
	return diagnostics, nil
}

var _ ports.SidecarValidatorPort = AppDataValidatorAdapter{}
