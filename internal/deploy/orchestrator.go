// Package deploy sequences the deployment pipeline: source fetch, host
// preparation, file sync, container launch, proxy configuration and
// validation. Every forward step is a gate; failure aborts the run.
package deploy

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shipward/shipward/internal/config"
	"github.com/shipward/shipward/internal/docker"
	"github.com/shipward/shipward/internal/git"
	"github.com/shipward/shipward/internal/nginx"
	"github.com/shipward/shipward/internal/remote"
	"github.com/shipward/shipward/internal/runlog"
	"github.com/shipward/shipward/internal/security"
	"github.com/shipward/shipward/internal/ssh"
	"github.com/shipward/shipward/internal/syncer"
	"github.com/shipward/shipward/internal/tlscert"
)

// Orchestrator owns one run's parameter set and drives the pipeline
type Orchestrator struct {
	params *config.Params
	log    *runlog.Log

	// exec is established by the connect step, or injected for tests
	exec ssh.Executor

	// workDir is where source checkouts live locally
	workDir string
	verbose bool

	// method is decided by the detect step
	method       config.BuildMethod
	manifestPath string
}

// NewOrchestrator creates an orchestrator for one validated parameter set
func NewOrchestrator(params *config.Params, log *runlog.Log) *Orchestrator {
	return &Orchestrator{params: params, log: log, workDir: "."}
}

// SetWorkDir overrides where source checkouts are placed locally
func (o *Orchestrator) SetWorkDir(dir string) {
	o.workDir = dir
}

// SetExecutor injects a remote executor, skipping the connect step (tests)
func (o *Orchestrator) SetExecutor(exec ssh.Executor) {
	o.exec = exec
}

// SetVerbose echoes every remote command to the log before it runs
func (o *Orchestrator) SetVerbose(verbose bool) {
	o.verbose = verbose
}

type step struct {
	name string
	fn   func(context.Context) error
}

// Run executes the forward pipeline. On any gate failure the failing step
// is logged with its context and the error is returned; partially applied
// remote state is left for the next idempotent run or an explicit cleanup.
func (o *Orchestrator) Run(ctx context.Context) error {
	steps := []step{
		{"validate parameters", o.stepValidate},
		{"fetch source", o.stepFetchSource},
		{"detect build method", o.stepDetectBuildMethod},
		{"connect to host", o.stepConnect},
		{"prepare host", o.stepPrepareHost},
		{"sync files", o.stepSyncFiles},
		{"launch containers", o.stepLaunchContainers},
		{"configure proxy", o.stepConfigureProxy},
		{"validate deployment", o.stepProbe},
	}

	for _, s := range steps {
		o.log.Info("==> %s", s.name)
		if err := s.fn(ctx); err != nil {
			o.log.Error("Step %q failed: %v", s.name, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	o.log.Info("Deployment of %s complete", o.params.Identity)
	return nil
}

func (o *Orchestrator) stepValidate(context.Context) error {
	return o.params.Validate()
}

func (o *Orchestrator) stepFetchSource(ctx context.Context) error {
	src := &git.Source{
		RepoURL: o.params.RepoURL,
		Token:   o.params.Token,
		Branch:  o.params.Branch,
	}
	return git.Ensure(ctx, src, o.localRoot(), o.log.Info)
}

func (o *Orchestrator) stepDetectBuildMethod(context.Context) error {
	o.method, o.manifestPath = docker.DetectBuildMethod(o.localRoot())
	o.log.Info("Build method: %s", o.method)

	if o.method == config.BuildCompose {
		services, err := docker.ListServices(o.manifestPath)
		if err != nil {
			return err
		}
		o.log.Info("Compose services: %s", strings.Join(services, ", "))
	}
	return nil
}

func (o *Orchestrator) stepConnect(ctx context.Context) error {
	if o.exec != nil {
		return nil
	}

	client := ssh.NewClient(o.params.Host, o.params.User, 0, o.params.KeyPath)
	client.OnOutput(func(line string) {
		o.log.Output(line)
	})
	if err := client.Connect(); err != nil {
		return err
	}

	// Cheap round trip proves the session layer works, not just the dial
	result, err := client.Exec(ctx, "true")
	if err != nil {
		return fmt.Errorf("connectivity probe failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("connectivity probe exited %d", result.ExitCode)
	}

	o.exec = client
	if o.verbose {
		o.exec = &loggingExecutor{inner: client, log: o.log}
	}
	o.log.Info("Connected to %s@%s", o.params.User, o.params.Host)
	return nil
}

func (o *Orchestrator) stepPrepareHost(ctx context.Context) error {
	result, err := o.exec.Exec(ctx, remote.PrepareHostScript)
	if err != nil {
		return fmt.Errorf("host preparation failed: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("host preparation exited %d: %s",
			result.ExitCode, strings.TrimSpace(result.Output))
	}
	return nil
}

func (o *Orchestrator) stepSyncFiles(ctx context.Context) error {
	remoteRoot := o.remoteRoot()

	mkdir := fmt.Sprintf("mkdir -p %s", security.ShellEscape(remoteRoot))
	result, err := o.exec.Exec(ctx, mkdir)
	if err != nil {
		return fmt.Errorf("failed to create remote root: %w", err)
	}
	if !result.OK() {
		return fmt.Errorf("failed to create remote root %s: %s",
			remoteRoot, strings.TrimSpace(result.Output))
	}

	req := &syncer.Request{
		LocalRoot:  o.localRoot(),
		RemoteRoot: remoteRoot,
		User:       o.params.User,
		Host:       o.params.Host,
		KeyPath:    o.params.KeyPath,
	}
	return syncer.Sync(ctx, req, o.log.Info)
}

func (o *Orchestrator) stepLaunchContainers(ctx context.Context) error {
	launcher := docker.NewLauncher(o.exec, o.log.Info)
	return launcher.Deploy(ctx, o.params.Identity, o.remoteRoot(), o.method)
}

// stepConfigureProxy branches on the TLS strategy. Self-signed issues the
// certificate before the site references it; managed activates the plain
// HTTP site first so certbot's ownership challenge can succeed, then lets
// certbot rewrite that site in place.
func (o *Orchestrator) stepConfigureProxy(ctx context.Context) error {
	proxy := nginx.NewConfigurator(o.exec, o.log.Info)
	site := nginx.Site{
		Identity: o.params.Identity,
		Strategy: o.params.TLS,
		Port:     o.targetPort(),
	}

	switch o.params.TLS {
	case config.TLSNone:
		return proxy.Configure(ctx, site)

	case config.TLSSelfSigned:
		provisioner := tlscert.NewSelfSigned(o.exec)
		pair, err := provisioner.Issue(ctx, o.params.Identity, o.params.Host)
		if err != nil {
			return err
		}
		o.log.Info("Self-signed certificate at %s", pair.CertPath)
		site.Cert = pair
		return proxy.Configure(ctx, site)

	case config.TLSManaged:
		site.Domain = o.params.Domain
		if err := proxy.Configure(ctx, site); err != nil {
			return err
		}
		issuer := tlscert.NewManaged(o.exec, o.log.Warn)
		if err := issuer.Issue(ctx, o.params.Domain, o.params.Email); err != nil {
			return err
		}
		// certbot rewrote the site; re-validate what it left behind
		return proxy.TestAndReload(ctx)

	default:
		return fmt.Errorf("unknown TLS strategy %v", o.params.TLS)
	}
}

// localRoot is the checkout location for this identity
func (o *Orchestrator) localRoot() string {
	return filepath.Join(o.workDir, o.params.Identity)
}

// remoteRoot is the project tree location on the host
func (o *Orchestrator) remoteRoot() string {
	return remote.AppDir(o.params.User, o.params.Identity)
}

// targetPort is the host port the proxy forwards to: the fixed published
// port for single-image builds, the declared application port for compose
// stacks.
func (o *Orchestrator) targetPort() int {
	if o.method == config.BuildImage {
		return docker.HostPort
	}
	return o.params.AppPort
}
