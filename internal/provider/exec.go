package provider

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Credentials is the read side of the credential store handed to adapters.
type Credentials interface {
	APIKey(id ID) string
	Model(id ID) string
}

// process describes one subprocess invocation.
type process struct {
	argv []string
	env  map[string]string
}

// processOutput is what a finished process left behind.
type processOutput struct {
	stdout   string
	stderr   string
	exitCode int
	spawnErr error
}

// run starts the process and waits for it. When onLine is set it is called
// with every stdout line as it arrives, in order.
func (p process) run(ctx context.Context, onLine func(line string)) processOutput {
	if len(p.argv) == 0 {
		return processOutput{exitCode: -1, spawnErr: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, p.argv[0], p.argv[1:]...)
	env := os.Environ()
	for k, v := range p.env {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return processOutput{exitCode: -1, spawnErr: err}
	}
	if err := cmd.Start(); err != nil {
		return processOutput{exitCode: -1, spawnErr: err}
	}

	// stdout must be drained before Wait closes the pipe.
	var stdout strings.Builder
	var readErr error
	reader := bufio.NewReader(stdoutPipe)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			stdout.WriteString(line)
			if onLine != nil {
				onLine(strings.TrimRight(line, "\r\n"))
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}

	waitErr := cmd.Wait()
	out := processOutput{stdout: stdout.String(), stderr: stderr.String()}
	if readErr != nil {
		out.stderr += readErr.Error()
	}
	if err := waitErr; err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.exitCode = exitErr.ExitCode()
		} else {
			out.exitCode = -1
			out.spawnErr = err
		}
	}
	return out
}

// mentionsAuth reports whether a failure text looks like an authentication problem.
func mentionsAuth(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{"api key", "authentication", "login", "unauthorized"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
