package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"time"
)

// Request describes a single command execution.
type Request struct {
	Command          string `json:"command"`
	WorkingDirectory string `json:"workingDirectory,omitempty"`
}

// Result is the structured outcome of a command execution.
type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// resultPayload is the wire shape embedded into tool turns. The UI and
// the model both read "output" and "error" from it.
type resultPayload struct {
	Output   string `json:"output"`
	Error    string `json:"error"`
	ExitCode int    `json:"exit_code"`
}

// JSON serializes the result for embedding as tool-turn content.
func (r Result) JSON() string {
	data, err := json.Marshal(resultPayload{
		Output:   r.Stdout,
		Error:    r.Stderr,
		ExitCode: r.ExitCode,
	})
	if err != nil {
		return `{"output":"","error":"failed to serialize execution result"}`
	}
	return string(data)
}

// ParseResultPayload extracts output/error/exit code from serialized
// tool-turn content. Used by the UI to render tool results.
func ParseResultPayload(content string) (output, errText string, exitCode int, ok bool) {
	var p resultPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return "", "", 0, false
	}
	return p.Output, p.Error, p.ExitCode, true
}

// Executor runs terminal commands. The command engine only depends on
// this interface; process spawning lives behind it.
type Executor interface {
	Execute(ctx context.Context, req Request) Result
}

// ShellExecutor runs commands through sh -c with a per-command timeout.
type ShellExecutor struct {
	Timeout time.Duration
}

func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{Timeout: 30 * time.Second}
}

func (s *ShellExecutor) Execute(ctx context.Context, req Request) Result {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", req.Command)
	if req.WorkingDirectory != "" {
		cmd.Dir = req.WorkingDirectory
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Command never ran (bad working directory, context cancelled, ...)
			result.ExitCode = -1
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
	}

	return result
}
