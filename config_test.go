package sessionclient

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := defaultConfig()
	cfg.BaseURL = "https://api.example.com"
	return cfg
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate once a base URL is set: %v", err)
	}
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cases := []string{
		"",
		"ftp://api.example.com",
		"https://",
		"not a url at all ://",
	}

	for _, base := range cases {
		cfg := validTestConfig()
		cfg.BaseURL = base
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected validation error for base URL %q", base)
		}
	}
}

func TestValidateRejectsRelativePaths(t *testing.T) {
	cfg := validTestConfig()
	cfg.Role.RefreshPath = "refresh-token"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "RefreshPath") {
		t.Fatalf("expected RefreshPath error, got %v", err)
	}

	cfg = validTestConfig()
	cfg.Role.LogoutPath = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "LogoutPath") {
		t.Fatalf("expected LogoutPath error, got %v", err)
	}
}

func TestValidateRejectsNonPositiveTimeouts(t *testing.T) {
	cfg := validTestConfig()
	cfg.Recovery.RefreshTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero refresh timeout")
	}

	cfg = validTestConfig()
	cfg.Recovery.LogoutTimeout = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative logout timeout")
	}

	cfg = validTestConfig()
	cfg.HTTP.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero HTTP timeout")
	}
}

func TestValidateProactiveRefreshNeedsCookieName(t *testing.T) {
	cfg := validTestConfig()
	cfg.Recovery.ProactiveRefresh = true
	cfg.Recovery.AccessCookieName = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for proactive refresh without cookie name")
	}
}

func TestRolePresetsCoverCanonicalRoles(t *testing.T) {
	cases := []struct {
		role           Role
		refreshPath    string
		logoutPath     string
		handleConflict bool
	}{
		{RoleBusinessOwner, "/business-owner/refresh-token", "/business-owner/logout", true},
		{RoleManager, "/manager/refresh-token", "/chat/logout", false},
		{RoleEmployee, "/employee/refresh-token", "/employee/logout", false},
		{RoleSuperAdmin, "/superadmin/refresh-token", "/superadmin/logout", false},
	}

	for _, tc := range cases {
		preset, ok := RolePreset(tc.role)
		if !ok {
			t.Fatalf("expected preset for role %s", tc.role)
		}
		if preset.RefreshPath != tc.refreshPath {
			t.Fatalf("role %s: expected refresh path %s, got %s", tc.role, tc.refreshPath, preset.RefreshPath)
		}
		if preset.LogoutPath != tc.logoutPath {
			t.Fatalf("role %s: expected logout path %s, got %s", tc.role, tc.logoutPath, preset.LogoutPath)
		}
		if preset.HandleConflict != tc.handleConflict {
			t.Fatalf("role %s: expected handleConflict=%v", tc.role, tc.handleConflict)
		}
	}

	if _, ok := RolePreset(Role("contractor")); ok {
		t.Fatal("expected no preset for unknown role")
	}
}
