package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{"cmd", "-d", "/data", "-b", "flat", "-m", "simple", "-a", "127.0.0.1:9090", "-i", "/inbox", "-l", "debug", "-w", "30s"},
			expected: &Config{DataDir: "/data", Backend: "flat", Variant: "simple", ListenAddr: "127.0.0.1:9090", InboxDir: "/inbox", LogLevel: "debug", BackupInterval: 30 * time.Second}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-x", "1", "-d", "/data"},
			expected: &Config{DataDir: "/data"}},
		{name: "bad duration", args: []string{"cmd", "-w", "soon"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}
			err := parseFlags(config)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
