package models

import "testing"

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		email, want string
	}{
		{"alice@example.com", "example.com"},
		{"ALICE@EXAMPLE.COM", "example.com"},
		{"weird@name@corp.example", "corp.example"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EmailDomain(tt.email); got != tt.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	named := User{Email: "alice@example.com", DisplayName: "Alice"}
	if named.DisplayLabel() != "Alice" {
		t.Errorf("DisplayLabel = %q", named.DisplayLabel())
	}
	unnamed := User{Email: "bob@example.com"}
	if unnamed.DisplayLabel() != "bob@example.com" {
		t.Errorf("DisplayLabel = %q", unnamed.DisplayLabel())
	}
	if unnamed.HasDisplayName() {
		t.Error("HasDisplayName should be false without a name")
	}
}
