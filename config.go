package sessionclient

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by sessionclient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL  string
	Role     RoleConfig
	HTTP     HTTPConfig
	Recovery RecoveryConfig
	Session  SessionConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
ROLE CONFIG
====================================
*/

// RoleConfig defines a public type used by sessionclient APIs.
//
// RoleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoleConfig struct {
	Name           Role
	PathPrefix     string
	RefreshPath    string
	LogoutPath     string
	HandleConflict bool
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig defines a public type used by sessionclient APIs.
//
// HTTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPConfig struct {
	Timeout       time.Duration
	WithCookieJar bool
	UserAgent     string
}

/*
====================================
RECOVERY CONFIG
====================================
*/

// RecoveryConfig defines a public type used by sessionclient APIs.
//
// RecoveryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RecoveryConfig struct {
	RefreshTimeout      time.Duration
	LogoutTimeout       time.Duration
	SingleFlightRefresh bool
	ProactiveRefresh    bool
	AccessCookieName    string
	ExpiryLeeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by sessionclient APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	SnapshotTTL time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by sessionclient APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by sessionclient APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
ROLE PRESETS
====================================
*/

// RolePreset returns the canonical RoleConfig for one of the platform roles.
// The presets encode the paths the backend actually serves; callers override
// individual fields through Builder.WithRole when their deployment differs.
//
// The manager logout endpoint lives under /chat because the backend hosts the
// manager session teardown on its chat service.
func RolePreset(role Role) (RoleConfig, bool) {
	switch role {
	case RoleBusinessOwner:
		return RoleConfig{
			Name:           RoleBusinessOwner,
			PathPrefix:     "/business-owner",
			RefreshPath:    "/business-owner/refresh-token",
			LogoutPath:     "/business-owner/logout",
			HandleConflict: true,
		}, true
	case RoleManager:
		return RoleConfig{
			Name:        RoleManager,
			PathPrefix:  "/manager",
			RefreshPath: "/manager/refresh-token",
			LogoutPath:  "/chat/logout",
		}, true
	case RoleEmployee:
		return RoleConfig{
			Name:        RoleEmployee,
			PathPrefix:  "/employee",
			RefreshPath: "/employee/refresh-token",
			LogoutPath:  "/employee/logout",
		}, true
	case RoleSuperAdmin:
		return RoleConfig{
			Name:        RoleSuperAdmin,
			PathPrefix:  "/superadmin",
			RefreshPath: "/superadmin/refresh-token",
			LogoutPath:  "/superadmin/logout",
		}, true
	default:
		return RoleConfig{}, false
	}
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	role, _ := RolePreset(RoleBusinessOwner)
	return Config{
		Role: role,
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			WithCookieJar: true,
		},
		Recovery: RecoveryConfig{
			RefreshTimeout:      10 * time.Second,
			LogoutTimeout:       5 * time.Second,
			SingleFlightRefresh: false,
			ProactiveRefresh:    false,
			AccessCookieName:    "access_token",
			ExpiryLeeway:        15 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "scs",
			SnapshotTTL: 7 * 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Base URL
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.New("BaseURL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("BaseURL scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("BaseURL must include a host")
	}

	// Role
	if c.Role.Name == "" {
		return errors.New("Role Name is required")
	}
	if c.Role.RefreshPath == "" || !strings.HasPrefix(c.Role.RefreshPath, "/") {
		return errors.New("Role RefreshPath must be an absolute path")
	}
	if c.Role.LogoutPath == "" || !strings.HasPrefix(c.Role.LogoutPath, "/") {
		return errors.New("Role LogoutPath must be an absolute path")
	}
	if c.Role.PathPrefix != "" && !strings.HasPrefix(c.Role.PathPrefix, "/") {
		return errors.New("Role PathPrefix must be an absolute path when set")
	}

	// HTTP
	if c.HTTP.Timeout <= 0 {
		return errors.New("HTTP Timeout must be > 0")
	}

	// Recovery
	if c.Recovery.RefreshTimeout <= 0 {
		return errors.New("Recovery RefreshTimeout must be > 0")
	}
	if c.Recovery.LogoutTimeout <= 0 {
		return errors.New("Recovery LogoutTimeout must be > 0")
	}
	if c.Recovery.ExpiryLeeway < 0 {
		return errors.New("Recovery ExpiryLeeway must be >= 0")
	}
	if c.Recovery.ProactiveRefresh && c.Recovery.AccessCookieName == "" {
		return errors.New("Recovery AccessCookieName is required when ProactiveRefresh is enabled")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if c.Session.SnapshotTTL < 0 {
		return errors.New("Session SnapshotTTL must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
