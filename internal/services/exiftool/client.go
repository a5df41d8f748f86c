package exiftool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediasort/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithOverwriteOriginal controls whether ExifTool keeps its "_original" backup.
func WithOverwriteOriginal(overwrite bool) Option {
	return func(c *Client) {
		c.overwriteOriginal = overwrite
	}
}

// Client wraps ExifTool CLI interactions.
type Client struct {
	binary            string
	timeout           time.Duration
	overwriteOriginal bool
	exec              Executor
}

// Result summarizes one ExifTool write.
type Result struct {
	Updated   int
	Unchanged int
	Warnings  []string
	Output    []string
}

// New constructs an ExifTool client. A timeoutSeconds of zero means no limit.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	client := &Client{
		binary:            binary,
		timeout:           time.Duration(timeoutSeconds) * time.Second,
		overwriteOriginal: true,
		exec:              commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured executable name or path.
func (c *Client) Binary() string {
	return c.binary
}

// Write applies tag assignments such as "-Keywords=rose" to a single file.
func (c *Client) Write(ctx context.Context, path string, assignments []string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("exiftool: file path required")
	}
	if len(assignments) == 0 {
		return Result{}, nil
	}

	args := make([]string, 0, len(assignments)+4)
	if c.overwriteOriginal {
		args = append(args, "-overwrite_original")
	}
	args = append(args, "-charset", "filename=utf8")
	args = append(args, assignments...)
	args = append(args, "--", path)

	lines, runErr := c.run(ctx, args)
	result := parseOutput(lines)

	if msg := firstError(lines); msg != "" {
		return result, services.Wrap(services.ErrExternalTool, services.StageTag, "exiftool", msg, runErr)
	}
	if runErr != nil {
		return result, services.Wrap(services.ErrExternalTool, services.StageTag, "exiftool", "exiftool failed", runErr)
	}
	if result.Updated == 0 && result.Unchanged == 0 {
		return result, services.Wrap(services.ErrExternalTool, services.StageTag, "exiftool", "no files updated", nil)
	}
	return result, nil
}

// Version runs "exiftool -ver" and returns the reported version.
func (c *Client) Version(ctx context.Context) (string, error) {
	lines, err := c.run(ctx, []string{"-ver"})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "", "exiftool version", "exiftool unavailable", err)
	}
	for _, line := range lines {
		if v := strings.TrimSpace(line); v != "" {
			return v, nil
		}
	}
	return "", services.Wrap(services.ErrExternalTool, "", "exiftool version", "empty version output", nil)
}

func (c *Client) run(ctx context.Context, args []string) ([]string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		mu    sync.Mutex
		lines []string
	)
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	})
	return lines, err
}

var summaryPattern = regexp.MustCompile(`^\s*(\d+)\s+(?:image\s+)?files?\s+(updated|unchanged)`)

func parseOutput(lines []string) Result {
	result := Result{Output: lines}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "Warning:"); ok {
			result.Warnings = append(result.Warnings, strings.TrimSpace(rest))
			continue
		}
		match := summaryPattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		n, _ := strconv.Atoi(match[1])
		if match[2] == "updated" {
			result.Updated += n
		} else {
			result.Unchanged += n
		}
	}
	return result
}

func firstError(lines []string) string {
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Error:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
