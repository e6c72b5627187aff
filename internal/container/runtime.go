// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs one-shot conversion images under docker or podman.
// Documents are streamed through the container's stdin and stdout so no
// volume mounts are needed.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// maxStderr caps how much of a failing container's stderr is kept.
const maxStderr = 4 << 10

// Runtime is a container engine able to run a filter image.
type Runtime interface {
	// Name returns the runtime binary ("docker" or "podman").
	Name() string

	// Available reports whether the binary is on PATH and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with stdin attached, copies its stdout to stdout, and
	// removes the container afterwards. A non-zero exit includes the tail of
	// stderr in the error.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// commander abstracts process execution for tests.
type commander interface {
	LookPath(file string) (string, error)
	Quiet(ctx context.Context, name string, args ...string) error
	Stream(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osCommander) Quiet(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osCommander) Stream(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// engine implements Runtime. Docker and podman differ only in the binary
// and the image-check subcommand.
type engine struct {
	bin        string
	imageCheck []string
	cmd        commander
}

func (e *engine) Name() string { return e.bin }

func (e *engine) Available(ctx context.Context) bool {
	if _, err := e.cmd.LookPath(e.bin); err != nil {
		return false
	}
	return e.cmd.Quiet(ctx, e.bin, "info") == nil
}

func (e *engine) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, e.imageCheck...), image)
	if err := e.cmd.Quiet(ctx, e.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, e.bin, err)
	}
	return nil
}

func (e *engine) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	args := []string{"run", "--rm", "-i", "--network", "none", image}
	if err := e.cmd.Stream(ctx, e.bin, args, stdin, stdout, &limitedWriter{buf: &stderr, max: maxStderr}); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s in %s: %w: %s", image, e.bin, err, msg)
		}
		return fmt.Errorf("running %s in %s: %w", image, e.bin, err)
	}
	return nil
}

func newEngine(bin string, cmd commander) *engine {
	check := []string{"image", "inspect"}
	if bin == binPodman {
		check = []string{"image", "exists"}
	}
	return &engine{bin: bin, imageCheck: check, cmd: cmd}
}

// Detect returns the first working runtime, preferring docker over podman.
func Detect(ctx context.Context) (Runtime, error) {
	return detect(ctx, osCommander{})
}

func detect(ctx context.Context, cmd commander) (Runtime, error) {
	for _, bin := range []string{binDocker, binPodman} {
		if e := newEngine(bin, cmd); e.Available(ctx) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational", binDocker, binPodman)
}

// limitedWriter keeps the first max bytes and discards the rest.
type limitedWriter struct {
	buf *bytes.Buffer
	max int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if room := w.max - w.buf.Len(); room > 0 {
		if len(p) > room {
			w.buf.Write(p[:room])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
