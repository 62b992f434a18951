package remote

import (
	"strings"
	"testing"
)

func TestScriptRenderEscapesValues(t *testing.T) {
	s := MustScript("run", "docker run --name {{.Name}} {{.Image}}")

	got, err := s.Render(map[string]string{
		"Name":  "my app; reboot",
		"Image": "widget:latest",
	})
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(got, "my app; reboot") {
		t.Errorf("value interpolated without escaping: %q", got)
	}
	if !strings.Contains(got, "widget:latest") {
		t.Errorf("plain value missing from output: %q", got)
	}
}

func TestScriptRenderMissingValue(t *testing.T) {
	s := MustScript("run", "echo {{.Missing}}")

	if _, err := s.Render(map[string]string{"Other": "x"}); err == nil {
		t.Error("expected error for unreferenced placeholder, got nil")
	}
}

func TestScriptPreservesRemoteSyntax(t *testing.T) {
	// Remote-side $VAR and $(...) must pass through untouched.
	s := MustScript("probe", `status=$(systemctl is-active nginx); echo "$status {{.Site}}"`)

	got, err := s.Render(map[string]string{"Site": "widget"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `$(systemctl is-active nginx)`) {
		t.Errorf("remote command substitution mangled: %q", got)
	}
	if !strings.Contains(got, `"$status`) {
		t.Errorf("remote variable mangled: %q", got)
	}
}

func TestNewScriptRejectsBadTemplate(t *testing.T) {
	if _, err := NewScript("bad", "echo {{.Unclosed"); err == nil {
		t.Error("expected parse error for malformed script")
	}
}

func TestPrepareHostScriptIsLiteral(t *testing.T) {
	// The host preparation script must contain no substitution points:
	// it is transmitted verbatim.
	if strings.Contains(PrepareHostScript, "{{") {
		t.Error("prepare script contains template syntax; it must stay literal")
	}
	for _, pkg := range []string{"docker.io", "nginx", "rsync"} {
		if !strings.Contains(PrepareHostScript, pkg) {
			t.Errorf("prepare script missing package %s", pkg)
		}
	}
}

func TestPaths(t *testing.T) {
	if got := AppDir("deploy", "widget"); got != "/home/deploy/apps/widget" {
		t.Errorf("AppDir = %q", got)
	}
	if got := AppDir("root", "widget"); got != "/root/apps/widget" {
		t.Errorf("AppDir for root = %q", got)
	}
	if got := SitePath("widget"); got != "/etc/nginx/sites-available/widget" {
		t.Errorf("SitePath = %q", got)
	}
	if got := SiteLinkPath("widget"); got != "/etc/nginx/sites-enabled/widget" {
		t.Errorf("SiteLinkPath = %q", got)
	}
	if got := CertPath("widget"); got != "/etc/ssl/certs/widget.crt" {
		t.Errorf("CertPath = %q", got)
	}
	if got := KeyPath("widget"); got != "/etc/ssl/private/widget.key" {
		t.Errorf("KeyPath = %q", got)
	}
}
