package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrompterString(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader("myanswer\n"), &out)

	got, err := p.String("Repository URL", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "myanswer" {
		t.Errorf("String() = %q, want %q", got, "myanswer")
	}
	if !strings.Contains(out.String(), "Repository URL") {
		t.Errorf("prompt label missing from output: %q", out.String())
	}
}

func TestPrompterStringEmptyTakesDefault(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader("\n"), &out)

	got, err := p.String("Branch", "main")
	if err != nil {
		t.Fatal(err)
	}
	if got != "main" {
		t.Errorf("String() = %q, want default %q", got, "main")
	}
	if !strings.Contains(out.String(), "[main]") {
		t.Errorf("default not shown in prompt: %q", out.String())
	}
}

func TestPrompterSelect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     int
		want    int
		wantErr bool
	}{
		{"first option", "1\n", 0, 0, false},
		{"third option", "3\n", 0, 2, false},
		{"empty takes default", "\n", 1, 1, false},
		{"out of range high", "4\n", 0, 0, true},
		{"out of range low", "0\n", 0, 0, true},
		{"not a number", "x\n", 0, 0, true},
	}

	options := []string{"none", "self-signed", "letsencrypt"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompterForTesting(strings.NewReader(tt.input), &out)

			got, err := p.Select("TLS strategy:", options, tt.def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Select() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Select() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrompterSecretPipedInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterForTesting(strings.NewReader("tok123\n"), &out)

	got, err := p.Secret("Access token")
	if err != nil {
		t.Fatal(err)
	}
	if got != "tok123" {
		t.Errorf("Secret() = %q, want %q", got, "tok123")
	}
}
