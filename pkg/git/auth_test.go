package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/coderoad/coderoad-cli/pkg/config"
)

func TestTokenAuth_GetAuth(t *testing.T) {
	auth, err := NewTokenAuth("ghp_validtoken123").GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	basic, ok := auth.(*http.BasicAuth)
	if !ok {
		t.Fatalf("GetAuth() = %T, want *http.BasicAuth", auth)
	}
	if basic.Password != "ghp_validtoken123" {
		t.Errorf("Password = %q, want the token", basic.Password)
	}

	if _, err := NewTokenAuth("").GetAuth(); err == nil {
		t.Error("GetAuth() with empty token error = nil, want error")
	}
}

func TestSSHAuth_GetAuth(t *testing.T) {
	tmpDir := t.TempDir()

	wrongPerms := filepath.Join(tmpDir, "open_key")
	if err := os.WriteFile(wrongPerms, []byte("dummy key content"), 0644); err != nil {
		t.Fatal(err)
	}
	invalidKey := filepath.Join(tmpDir, "invalid_key")
	if err := os.WriteFile(invalidKey, []byte("dummy key content"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		keyPath string
	}{
		{"empty key path", ""},
		{"missing file", filepath.Join(tmpDir, "missing")},
		{"permissions too open", wrongPerms},
		{"not a key", invalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSSHAuth(tt.keyPath, "").GetAuth(); err == nil {
				t.Error("GetAuth() error = nil, want error")
			}
		})
	}
}

func TestNewAuthProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.GitAuthConfig
		wantType string
		wantErr  bool
	}{
		{"default", config.GitAuthConfig{}, "none", false},
		{"none", config.GitAuthConfig{Type: "none"}, "none", false},
		{"token", config.GitAuthConfig{Type: "token", Token: "t"}, "token", false},
		{"token missing", config.GitAuthConfig{Type: "token"}, "", true},
		{"ssh", config.GitAuthConfig{Type: "ssh", SSHKeyPath: "/tmp/key"}, "ssh", false},
		{"ssh missing", config.GitAuthConfig{Type: "ssh"}, "", true},
		{"unknown", config.GitAuthConfig{Type: "kerberos"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewAuthProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAuthProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && provider.Type() != tt.wantType {
				t.Errorf("Type() = %q, want %q", provider.Type(), tt.wantType)
			}
		})
	}

	auth, err := NewNoAuth().GetAuth()
	if auth != nil || err != nil {
		t.Errorf("NoAuth.GetAuth() = %v, %v; want nil, nil", auth, err)
	}
}
