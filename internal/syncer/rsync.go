// Package syncer mirrors the local source tree to the remote host with
// rsync delta-transfer semantics: modification times and permissions are
// preserved so the remote build reproduces the local tree.
package syncer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Excludes are never transferred: version-control metadata and the
// dependency cache have no business on the host.
var Excludes = []string{".git", "node_modules"}

// Request describes one directory mirror operation
type Request struct {
	LocalRoot  string
	RemoteRoot string
	User       string
	Host       string
	KeyPath    string
	Port       int
}

// Args builds the rsync argument list. Arguments are structured, not a
// shell string, so local values never pass through a shell.
func (r *Request) Args() []string {
	port := r.Port
	if port == 0 {
		port = 22
	}

	args := []string{"-az", "--delete"}
	for _, ex := range Excludes {
		args = append(args, "--exclude="+ex)
	}
	args = append(args,
		"-e", fmt.Sprintf("ssh -i %s -p %d -o BatchMode=yes", r.KeyPath, port),
		// Trailing slash: mirror the tree's contents, not the directory itself
		strings.TrimSuffix(r.LocalRoot, "/")+"/",
		fmt.Sprintf("%s@%s:%s/", r.User, r.Host, strings.TrimSuffix(r.RemoteRoot, "/")),
	)
	return args
}

// Sync runs the mirror. A non-zero rsync exit is fatal for the run.
func Sync(ctx context.Context, req *Request, logf func(string, ...interface{})) error {
	args := req.Args()
	logf("rsync %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "rsync", args...)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		logf("%s", string(out))
	}
	if err != nil {
		return fmt.Errorf("rsync to %s@%s:%s failed: %w", req.User, req.Host, req.RemoteRoot, err)
	}
	return nil
}
