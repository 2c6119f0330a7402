package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no config.yaml or .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Server.IsProduction())
	assert.Equal(t, SourceEmbedded, cfg.Dataset.Source)
	assert.Equal(t, 3, cfg.Client.MaxAttempts)
	assert.Equal(t, "10s", cfg.Client.Timeout().String())
	assert.Equal(t, "1s", cfg.Client.RetryDelay().String())
	assert.Equal(t, "300ms", cfg.Client.MinLoadDelay().String())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL())
}

func TestLoadEnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("FINMETRICS_SERVER_ENV", "production")
	t.Setenv("FINMETRICS_CLIENT_MAX_ATTEMPTS", "5")
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "https://metrics.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, 5, cfg.Client.MaxAttempts)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://metrics.example.com", cfg.APIBaseURL())
}

func TestLoadConfigFile(t *testing.T) {
	dir := inTempDir(t)
	yaml := "dataset:\n  source: file\n  path: data.yaml\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceFile, cfg.Dataset.Source)
	assert.Equal(t, "data.yaml", cfg.Dataset.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("FINMETRICS_DATASET_SOURCE=postgres\nDATABASE_URL=postgres://localhost/fin\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("FINMETRICS_DATASET_SOURCE")
		os.Unsetenv("DATABASE_URL")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.Dataset.Source)
	assert.Equal(t, "postgres://localhost/fin", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "embedded ok",
			cfg:  Config{Server: ServerConfig{Port: 80}, Dataset: DatasetConfig{Source: SourceEmbedded}},
		},
		{
			name:    "file without path",
			cfg:     Config{Server: ServerConfig{Port: 80}, Dataset: DatasetConfig{Source: SourceFile}},
			wantErr: "dataset.path",
		},
		{
			name:    "postgres without url",
			cfg:     Config{Server: ServerConfig{Port: 80}, Dataset: DatasetConfig{Source: SourcePostgres}},
			wantErr: "database.url",
		},
		{
			name:    "unknown source",
			cfg:     Config{Server: ServerConfig{Port: 80}, Dataset: DatasetConfig{Source: "s3"}},
			wantErr: "unknown dataset.source",
		},
		{
			name:    "bad port",
			cfg:     Config{Server: ServerConfig{Port: 0}, Dataset: DatasetConfig{Source: SourceEmbedded}},
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	_, err = NewLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
