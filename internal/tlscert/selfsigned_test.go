package tlscert

import (
	"context"
	"strings"
	"testing"

	"github.com/shipward/shipward/internal/ssh"
)

func TestSelfSignedIssue(t *testing.T) {
	mock := &ssh.MockExecutor{}
	s := NewSelfSigned(mock)

	pair, err := s.Issue(context.Background(), "widget", "203.0.113.10")
	if err != nil {
		t.Fatal(err)
	}

	if pair.CertPath != "/etc/ssl/certs/widget.crt" {
		t.Errorf("CertPath = %q", pair.CertPath)
	}
	if pair.KeyPath != "/etc/ssl/private/widget.key" {
		t.Errorf("KeyPath = %q", pair.KeyPath)
	}

	if len(mock.Commands) != 1 {
		t.Fatalf("expected one remote script, got %v", mock.Commands)
	}
	script := mock.Commands[0]
	for _, want := range []string{
		"-days 365",
		"rsa:2048",
		"/CN=203.0.113.10",
		"chmod 600 /etc/ssl/private/widget.key",
		"chmod 644 /etc/ssl/certs/widget.crt",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestSelfSignedIssueFailureIsFatal(t *testing.T) {
	mock := &ssh.MockExecutor{
		ExecFunc: func(context.Context, string) (*ssh.ExecResult, error) {
			return &ssh.ExecResult{Output: "unable to write key", ExitCode: 1}, nil
		},
	}
	s := NewSelfSigned(mock)

	_, err := s.Issue(context.Background(), "widget", "203.0.113.10")
	if err == nil {
		t.Fatal("expected error for failed generation")
	}
	if !strings.Contains(err.Error(), "unable to write key") {
		t.Errorf("error should carry command output: %v", err)
	}
}

func TestSelfSignedIssueRejectsBadInputs(t *testing.T) {
	mock := &ssh.MockExecutor{}
	s := NewSelfSigned(mock)

	if _, err := s.Issue(context.Background(), "Bad Name", "203.0.113.10"); err == nil {
		t.Error("expected error for invalid identity")
	}
	if _, err := s.Issue(context.Background(), "widget", "host;reboot"); err == nil {
		t.Error("expected error for invalid host")
	}
	if len(mock.Commands) != 0 {
		t.Errorf("no remote command expected, got %v", mock.Commands)
	}
}

func TestSelfSignedRemove(t *testing.T) {
	mock := &ssh.MockExecutor{}
	s := NewSelfSigned(mock)

	if err := s.Remove(context.Background(), "widget"); err != nil {
		t.Fatal(err)
	}

	if len(mock.Commands) != 1 {
		t.Fatalf("expected one remove command, got %v", mock.Commands)
	}
	cmd := mock.Commands[0]
	if !strings.Contains(cmd, "rm -f") ||
		!strings.Contains(cmd, "/etc/ssl/certs/widget.crt") ||
		!strings.Contains(cmd, "/etc/ssl/private/widget.key") {
		t.Errorf("remove command incomplete: %q", cmd)
	}
}
