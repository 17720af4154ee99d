package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/dux/internal/config"
	"github.com/bamsammich/dux/internal/walker"
)

// execute runs the command with args and returns its stdout.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestOneFileSystemPathBecomesRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), bytes.Repeat([]byte("x"), 100), 0o644))

	out := execute(t, "--bytes", "-x", dir)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], dir)
	assert.True(t, strings.HasPrefix(lines[0], "100 "))
}

func TestGrandTotalWithSummarize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), bytes.Repeat([]byte("x"), 100), 0o644))

	out := execute(t, "--bytes", "-s", "-c", dir)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], dir)
	assert.True(t, strings.HasSuffix(lines[1], " total"))
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		name      string
		blockSize string
		apparent  bool
		human     bool
		wantMode  walker.SizeMode
		rendered  string // format(4096)
	}{
		{"default", "", false, false, walker.DiskBlocks, "4096"},
		{"bytes", "", true, false, walker.Bytes, "4096"},
		{"human", "", false, true, walker.DiskBytes, "4.0K"},
		{"block unit", "M", false, false, walker.DiskBytes, "1M"},
		{"block integer", "1024", false, false, walker.DiskBytes, "4"},
		{"block size wins over bytes", "K", true, true, walker.DiskBytes, "4K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, format, err := selectFormat(tt.blockSize, tt.apparent, tt.human)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.rendered, format(4096))
		})
	}
}

func TestSelectFormat_InvalidBlockSize(t *testing.T) {
	_, _, err := selectFormat("bogus", false, false)
	assert.Error(t, err)
}

func TestApplyConfigDefaults(t *testing.T) {
	human := true
	threshold := "1M"
	workers := 8
	all := true
	defaults := config.DefaultsConfig{
		HumanReadable: &human,
		Threshold:     &threshold,
		Workers:       &workers,
		All:           &all,
	}

	newFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.Bool("human-readable", false, "")
		fs.String("threshold", "0", "")
		fs.Int("workers", 1, "")
		fs.Bool("all", false, "")
		return fs
	}

	t.Run("unset flags take config values", func(t *testing.T) {
		var (
			gotHuman     bool
			gotThreshold = "0"
			gotWorkers   = 1
			gotAll       bool
		)
		applyConfigDefaults(newFlags(), defaults, &gotHuman, &gotThreshold, &gotWorkers, &gotAll)

		assert.True(t, gotHuman)
		assert.Equal(t, "1M", gotThreshold)
		assert.Equal(t, 8, gotWorkers)
		assert.True(t, gotAll)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		fs := newFlags()
		require.NoError(t, fs.Set("threshold", "2G"))
		require.NoError(t, fs.Set("workers", "2"))

		var (
			gotHuman     bool
			gotThreshold = "2G"
			gotWorkers   = 2
			gotAll       bool
		)
		applyConfigDefaults(fs, defaults, &gotHuman, &gotThreshold, &gotWorkers, &gotAll)

		assert.Equal(t, "2G", gotThreshold)
		assert.Equal(t, 2, gotWorkers)
		assert.True(t, gotHuman, "unset flag still defaulted")
	})
}
