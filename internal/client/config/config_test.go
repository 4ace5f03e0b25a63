package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "taskkeeper-data", c.DataDir)
	assert.Equal(t, VariantPro, c.Variant)
	assert.Equal(t, 5*time.Minute, c.BackupInterval)
	assert.Equal(t, time.Second, c.AutoSaveDelay)
	assert.Empty(t, c.ListenAddr)
	assert.Equal(t, "indexed", c.StorageBackend())
	assert.Equal(t, filepath.Join("taskkeeper-data", "history"), c.History())
}

func TestStorageBackend(t *testing.T) {
	c := Config{Variant: VariantSimple}
	assert.Equal(t, "flat", c.StorageBackend())
	c.Backend = "indexed"
	assert.Equal(t, "indexed", c.StorageBackend())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, VariantPro, cfg.Variant)
	assert.Equal(t, 5*time.Minute, cfg.BackupInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /from/file\nvariant: simple\nbackup_interval: 2m\n"), 0o600))

	os.Args = []string{"testbin", "-c", path, "-d", "/from/flag"}
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.DataDir, "flags win over the file")
	assert.Equal(t, VariantSimple, cfg.Variant)
	assert.Equal(t, 2*time.Minute, cfg.BackupInterval)
}

func TestLoadConfig_RejectsUnknownVariant(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-m", "deluxe"}

	_, err := LoadConfig()
	assert.Error(t, err)
}
