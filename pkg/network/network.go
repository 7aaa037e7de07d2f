// Package network makes sure the shared container network referenced by the
// compose manifest exists before the stack is started.
package network

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"proxyforge-hq/proxyforge/pkg/config"
)

// Prober checks for and creates named container networks.
type Prober interface {
	// Exists reports whether the network is present.
	Exists(ctx context.Context, name string) (bool, error)

	// Create creates the network.
	Create(ctx context.Context, name string) error
}

// Error reports a failed network operation. It matches
// config.ErrResourceUnavailable.
type Error struct {
	Op   string
	Name string
	Err  error
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("network %s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is config.ErrResourceUnavailable.
func (e *Error) Is(target error) bool {
	return target == config.ErrResourceUnavailable
}

// Ensure creates the network name unless it already exists. It reports
// whether a network was created. Calling it repeatedly is safe.
func Ensure(ctx context.Context, p Prober, name string) (bool, error) {
	exists, err := p.Exists(ctx, name)
	if err != nil {
		return false, &Error{Op: "inspect", Name: name, Err: err}
	}
	if exists {
		return false, nil
	}

	if err := p.Create(ctx, name); err != nil {
		return false, &Error{Op: "create", Name: name, Err: err}
	}
	return true, nil
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// DockerProber drives the docker CLI.
type DockerProber struct {
	binary string
	run    Runner
}

// NewDockerProber creates a prober for the docker binary. A nil run uses
// ExecRunner.
func NewDockerProber(binary string, run Runner) *DockerProber {
	if binary == "" {
		binary = "docker"
	}
	if run == nil {
		run = ExecRunner
	}
	return &DockerProber{binary: binary, run: run}
}

// Exists runs "docker network inspect". A daemon answer that the network is
// unknown means false; any other failure is an error.
func (d *DockerProber) Exists(ctx context.Context, name string) (bool, error) {
	out, err := d.run(ctx, d.binary, "network", "inspect", "--format", "{{.Name}}", name)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && notFound(out) {
		return false, nil
	}
	return false, commandError(err, out)
}

// Create runs "docker network create".
func (d *DockerProber) Create(ctx context.Context, name string) error {
	out, err := d.run(ctx, d.binary, "network", "create", name)
	if err != nil {
		return commandError(err, out)
	}
	return nil
}

func notFound(out []byte) bool {
	msg := strings.ToLower(string(out))
	return strings.Contains(msg, "no such network") || strings.Contains(msg, "not found")
}

func commandError(err error, out []byte) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}
