package deploy

import (
	"context"
	"fmt"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/docker"
	"github.com/shipward/shipward/internal/nginx"
	"github.com/shipward/shipward/internal/runlog"
	"github.com/shipward/shipward/internal/ssh"
	"github.com/shipward/shipward/internal/tlscert"
)

// Cleaner executes the teardown pipeline: the exact inverse of what the
// forward pipeline created, keyed by the same identity. Every step
// tolerates absence, so cleaning up a never-deployed identity succeeds.
type Cleaner struct {
	params  *config.CleanupParams
	log     *runlog.Log
	exec    ssh.Executor
	verbose bool
}

// NewCleaner creates a cleaner for one identity
func NewCleaner(params *config.CleanupParams, log *runlog.Log) *Cleaner {
	return &Cleaner{params: params, log: log}
}

// SetExecutor injects a remote executor, skipping the connect step (tests)
func (c *Cleaner) SetExecutor(exec ssh.Executor) {
	c.exec = exec
}

// SetVerbose echoes every remote command to the log before it runs
func (c *Cleaner) SetVerbose(verbose bool) {
	c.verbose = verbose
}

// Run tears the deployment down: containers and images first, then the
// proxy site, then certificate artifacts.
func (c *Cleaner) Run(ctx context.Context) error {
	if err := c.params.Validate(); err != nil {
		c.log.Error("Cleanup parameters invalid: %v", err)
		return err
	}

	if err := c.connect(ctx); err != nil {
		c.log.Error("Cleanup could not connect: %v", err)
		return err
	}

	steps := []step{
		{"remove containers and images", func(ctx context.Context) error {
			launcher := docker.NewLauncher(c.exec, c.log.Info)
			return launcher.Remove(ctx, c.params.Identity)
		}},
		{"remove proxy site", func(ctx context.Context) error {
			proxy := nginx.NewConfigurator(c.exec, c.log.Info)
			return proxy.Deconfigure(ctx, c.params.Identity)
		}},
		{"remove certificate files", func(ctx context.Context) error {
			provisioner := tlscert.NewSelfSigned(c.exec)
			return provisioner.Remove(ctx, c.params.Identity)
		}},
	}

	for _, s := range steps {
		c.log.Info("==> %s", s.name)
		if err := s.fn(ctx); err != nil {
			c.log.Error("Step %q failed: %v", s.name, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	c.log.Info("Cleanup of %s complete", c.params.Identity)
	return nil
}

func (c *Cleaner) connect(ctx context.Context) error {
	if c.exec != nil {
		return nil
	}

	client := ssh.NewClient(c.params.Host, c.params.User, 0, c.params.KeyPath)
	client.OnOutput(func(line string) {
		c.log.Output(line)
	})
	if err := client.Connect(); err != nil {
		return err
	}

	result, err := client.Exec(ctx, "true")
	if err != nil {
		return fmt.Errorf("connectivity probe failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("connectivity probe exited %d", result.ExitCode)
	}

	c.exec = client
	if c.verbose {
		c.exec = &loggingExecutor{inner: client, log: c.log}
	}
	c.log.Info("Connected to %s@%s", c.params.User, c.params.Host)
	return nil
}
