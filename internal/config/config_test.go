package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.Retention.MaxAge)
	assert.Equal(t, "@every 1h", cfg.Retention.Schedule)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "file overrides defaults and keeps unset fields",
			file: `
server:
  port: 9090
  read_timeout: 5s
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "environment wins over file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"CLEANER_SERVER_PORT":              "7070",
				"CLEANER_RETENTION_MAX_AGE":        "6h",
				"CLEANER_SECURITY_ALLOWED_ORIGINS": "http://a.test,http://b.test",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 6*time.Hour, cfg.Retention.MaxAge)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name:    "invalid port rejected",
			file:    "server:\n  port: 70000\n",
			wantErr: true,
		},
		{
			name:    "unknown log output rejected",
			env:     map[string]string{"CLEANER_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "pong wait must exceed ping period",
			file:    "websocket:\n  ping_period: 90s\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			} else {
				path = writeConfig(t, "{}")
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}
