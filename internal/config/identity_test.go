package config

import "testing"

func TestDeriveIdentity(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"github https", "https://github.com/acme/widget.git", "widget", false},
		{"no git suffix", "https://github.com/acme/widget", "widget", false},
		{"trailing slash", "https://github.com/acme/widget/", "widget", false},
		{"uppercase flattened", "https://github.com/acme/MyWidget.git", "mywidget", false},
		{"underscores replaced", "https://github.com/acme/my_widget.git", "my-widget", false},
		{"dots replaced", "https://github.com/acme/widget.api.git", "widget-api", false},
		{"empty path", "https://github.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveIdentity(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DeriveIdentity(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DeriveIdentity(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDeriveIdentityDeterministic(t *testing.T) {
	a, err := DeriveIdentity("https://github.com/acme/widget.git")
	if err != nil {
		t.Fatal(err)
	}
	b, err := DeriveIdentity("https://github.com/acme/widget.git")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("identity not deterministic: %q vs %q", a, b)
	}
}
