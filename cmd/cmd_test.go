package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

func flagCmd(t *testing.T) *cobra.Command {
	t.Helper()
	oldWorkers, oldEngine := workers, engine
	t.Cleanup(func() { workers, engine = oldWorkers, oldEngine })

	c := &cobra.Command{}
	c.Flags().IntVar(&workers, "workers", 1, "")
	c.Flags().StringVar(&engine, "engine", "native", "")
	return c
}

func TestScanConfigEnvThenFlags(t *testing.T) {
	t.Setenv(config.EnvWorkers, "2")
	t.Setenv(config.EnvEngine, "exec")

	c := flagCmd(t)
	cfg, err := scanConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, config.EngineExec, cfg.Engine)

	require.NoError(t, c.Flags().Set("workers", "4"))
	require.NoError(t, c.Flags().Set("engine", "NATIVE"))
	cfg, err = scanConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, config.EngineNative, cfg.Engine)
}

func TestScanConfigRejectsBadFlags(t *testing.T) {
	c := flagCmd(t)
	require.NoError(t, c.Flags().Set("engine", "rsync"))
	_, err := scanConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c = flagCmd(t)
	require.NoError(t, c.Flags().Set("workers", "0"))
	_, err = scanConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "diskaudit 1.2.3 (abc123) built 2026-01-01\n", buf.String())
}

func TestScanJSONOnEmptyHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{"XDG_CACHE_HOME", "XDG_DATA_HOME", "XDG_STATE_HOME", "XDG_CONFIG_HOME"} {
		t.Setenv(env, "")
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"scan", "--json", "--path", "~"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		jsonOut = false
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, home, doc["scan_path"])

	cats := doc["categories"].(map[string]any)
	assert.Equal(t, 0.0, cats["caches_gb"])
	assert.Equal(t, 0.0, cats["projects_gb"])
	assert.Equal(t, []any{}, doc["recommendations"])
}

func TestScanRejectsMissingPath(t *testing.T) {
	rootCmd.SetArgs([]string{"scan", "--json", "--path", t.TempDir() + "/missing"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		jsonOut = false
	})

	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scan root")
}
