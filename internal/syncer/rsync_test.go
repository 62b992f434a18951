package syncer

import (
	"strings"
	"testing"
)

func TestRequestArgs(t *testing.T) {
	req := &Request{
		LocalRoot:  "/tmp/work/widget",
		RemoteRoot: "/home/deploy/apps/widget",
		User:       "deploy",
		Host:       "203.0.113.10",
		KeyPath:    "/home/me/.ssh/id_ed25519",
	}

	args := req.Args()
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-az",
		"--delete",
		"--exclude=.git",
		"--exclude=node_modules",
		"/tmp/work/widget/",
		"deploy@203.0.113.10:/home/deploy/apps/widget/",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}

	// Key and default port go through the ssh transport option.
	if !strings.Contains(joined, "-i /home/me/.ssh/id_ed25519") {
		t.Errorf("ssh key missing from transport: %v", args)
	}
	if !strings.Contains(joined, "-p 22") {
		t.Errorf("default port missing from transport: %v", args)
	}
}

func TestRequestArgsCustomPort(t *testing.T) {
	req := &Request{
		LocalRoot:  "/tmp/w",
		RemoteRoot: "/home/deploy/apps/w",
		User:       "deploy",
		Host:       "h",
		KeyPath:    "/k",
		Port:       2222,
	}
	if !strings.Contains(strings.Join(req.Args(), " "), "-p 2222") {
		t.Errorf("custom port missing: %v", req.Args())
	}
}

func TestRequestArgsTrailingSlashes(t *testing.T) {
	req := &Request{
		LocalRoot:  "/tmp/work/widget/",
		RemoteRoot: "/home/deploy/apps/widget/",
		User:       "deploy",
		Host:       "h",
		KeyPath:    "/k",
	}

	args := req.Args()
	src := args[len(args)-2]
	dst := args[len(args)-1]
	if strings.HasSuffix(src, "//") {
		t.Errorf("double slash in source: %q", src)
	}
	if strings.HasSuffix(dst, "//") {
		t.Errorf("double slash in destination: %q", dst)
	}
}
