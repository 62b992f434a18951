// Package docker drives the container runtime on the remote host. The
// runtime itself is an external collaborator reached through opaque
// commands over SSH.
package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/security"
	"github.com/shipward/shipward/internal/ssh"
)

// HostPort is where the single-image branch publishes the container; the
// reverse proxy forwards here.
const HostPort = 8080

// ContainerPort is the fixed port the application listens on inside a
// single-image container.
const ContainerPort = 80

// settleDelay gives containers a moment to start before the process
// listing is taken.
const settleDelay = 5 * time.Second

// Launcher builds and runs deployments on the remote host
type Launcher struct {
	exec   ssh.Executor
	logf   func(string, ...interface{})
	settle time.Duration
}

// NewLauncher creates a launcher running commands through exec
func NewLauncher(exec ssh.Executor, logf func(string, ...interface{})) *Launcher {
	return &Launcher{exec: exec, logf: logf, settle: settleDelay}
}

// SetSettleDelay overrides the post-start settle delay (tests)
func (l *Launcher) SetSettleDelay(d time.Duration) {
	l.settle = d
}

// Deploy stops any previous deployment with the same identity, then builds
// and starts the new one. Re-running against the same identity converges:
// teardown-before-create makes the step idempotent.
func (l *Launcher) Deploy(ctx context.Context, identity, remoteRoot string, method config.BuildMethod) error {
	if err := security.ValidateAppName(identity); err != nil {
		return err
	}

	l.stopExisting(ctx, identity)

	switch method {
	case config.BuildCompose:
		if err := l.deployCompose(ctx, identity, remoteRoot); err != nil {
			return err
		}
	case config.BuildImage:
		if err := l.deployImage(ctx, identity, remoteRoot); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown build method %v", method)
	}

	time.Sleep(l.settle)
	l.listProcesses(ctx, identity)
	return nil
}

// stopExisting removes any container matching the identity. Errors are
// ignored: a missing container is the common case.
func (l *Launcher) stopExisting(ctx context.Context, identity string) {
	_, _ = l.exec.Exec(ctx, fmt.Sprintf("docker stop %s 2>/dev/null || true", identity))
	_, _ = l.exec.Exec(ctx, fmt.Sprintf("docker rm -f %s 2>/dev/null || true", identity))
}

func (l *Launcher) deployCompose(ctx context.Context, identity, remoteRoot string) error {
	root := security.ShellEscape(remoteRoot)

	down := fmt.Sprintf("cd %s && docker compose down --remove-orphans 2>/dev/null || true", root)
	if _, err := l.exec.Exec(ctx, down); err != nil {
		return fmt.Errorf("compose down failed: %w", err)
	}

	up := fmt.Sprintf("cd %s && docker compose -p %s up -d --build", root, identity)
	result, err := l.exec.Exec(ctx, up)
	if err != nil {
		return fmt.Errorf("compose up failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("compose up exited %d: %s", result.ExitCode, strings.TrimSpace(result.Output))
	}
	return nil
}

func (l *Launcher) deployImage(ctx context.Context, identity, remoteRoot string) error {
	build := fmt.Sprintf("docker build -t %s:latest %s", identity, security.ShellEscape(remoteRoot))
	result, err := l.exec.Exec(ctx, build)
	if err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("image build exited %d: %s", result.ExitCode, strings.TrimSpace(result.Output))
	}

	run := fmt.Sprintf("docker run -d --name %s --restart unless-stopped -p %d:%d %s:latest",
		identity, HostPort, ContainerPort, identity)
	result, err = l.exec.Exec(ctx, run)
	if err != nil {
		return fmt.Errorf("container start failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("container start exited %d: %s", result.ExitCode, strings.TrimSpace(result.Output))
	}
	return nil
}

// listProcesses surfaces the running containers matching the identity as
// evidence of success. An empty listing is logged, not fatal: liveness
// validation happens later in the pipeline.
func (l *Launcher) listProcesses(ctx context.Context, identity string) {
	cmd := fmt.Sprintf("docker ps --filter name=%s --format '{{.Names}}\t{{.Status}}\t{{.Ports}}'", identity)
	result, err := l.exec.Exec(ctx, cmd)
	if err != nil {
		l.logf("Could not list containers: %v", err)
		return
	}
	listing := strings.TrimSpace(result.Output)
	if listing == "" {
		l.logf("No container matching %s is listed yet", identity)
		return
	}
	l.logf("Running containers:\n%s", listing)
}

// Remove tears down every container and image matching the identity.
// Absence is tolerated silently.
func (l *Launcher) Remove(ctx context.Context, identity string) error {
	if err := security.ValidateAppName(identity); err != nil {
		return err
	}

	cmds := []string{
		fmt.Sprintf("docker stop %s 2>/dev/null || true", identity),
		fmt.Sprintf("docker rm -f %s 2>/dev/null || true", identity),
		fmt.Sprintf("docker compose -p %s down --remove-orphans 2>/dev/null || true", identity),
		fmt.Sprintf("docker images -q %s | xargs -r docker rmi -f 2>/dev/null || true", identity),
	}
	for _, cmd := range cmds {
		if _, err := l.exec.Exec(ctx, cmd); err != nil {
			return fmt.Errorf("container teardown failed: %w", err)
		}
	}
	return nil
}
