package launch

import (
	"bufio"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/quasar/mclaunch/internal/core"
)

// LogLine is one line of game output.
type LogLine struct {
	Text  string
	Level string // "info" or "error"
}

// Process is a started game process.
type Process struct {
	cmd       *exec.Cmd
	startedAt time.Time
	streams   sync.WaitGroup
}

// Start launches the command and streams its output as log lines.
// Sends never block; lines are dropped if the receiver lags.
func (b *Backend) Start(cmd *exec.Cmd, logs chan<- LogLine) (*Process, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &core.ProcessStartError{Path: cmd.Path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &core.ProcessStartError{Path: cmd.Path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &core.ProcessStartError{Path: cmd.Path, Err: err}
	}

	p := &Process{cmd: cmd, startedAt: time.Now()}
	p.streams.Add(2)
	go p.streamLog(stdout, logs, "stdout")
	go p.streamLog(stderr, logs, "stderr")
	return p, nil
}

// StartedAt reports when the process was spawned.
func (p *Process) StartedAt() time.Time {
	return p.startedAt
}

// Wait blocks until the game exits and reports how long it ran. A
// non-zero exit status comes back as the error from exec.
func (p *Process) Wait() (time.Duration, error) {
	p.streams.Wait()
	err := p.cmd.Wait()
	return time.Since(p.startedAt), err
}

// streamLog forwards process output. Stderr is always interesting;
// stdout only when it looks like a problem, so the log stays readable.
func (p *Process) streamLog(pipe io.ReadCloser, logs chan<- LogLine, source string) {
	defer p.streams.Done()

	scanner := bufio.NewScanner(pipe)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if source != "stderr" && !isImportantLogLine(line) {
			continue
		}

		level := "info"
		if source == "stderr" || looksLikeError(line) {
			level = "error"
		}
		if logs != nil {
			select {
			case logs <- LogLine{Text: line, Level: level}:
			default:
			}
		}
	}
}

func isImportantLogLine(line string) bool {
	for _, marker := range []string{"FATAL", "ERROR", "WARN", "Exception", "Error:"} {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func looksLikeError(line string) bool {
	for _, marker := range []string{"FATAL", "ERROR", "Exception", "Error:"} {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
