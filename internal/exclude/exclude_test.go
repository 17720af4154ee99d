package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_Paths(t *testing.T) {
	s := NewSet()
	s.AddPath("/srv/cache")

	assert.True(t, s.Match("/srv/cache", "cache"))
	assert.False(t, s.Match("/srv/cache2", "cache2"))
	assert.False(t, s.Match("/srv", "srv"))
}

func TestMatch_Patterns(t *testing.T) {
	s := NewSet()
	s.AddPattern("log")
	s.AddPattern("tmp")

	tests := []struct {
		name string
		want bool
	}{
		{"server.log", true},
		{"a.b.log", true},
		{"scratch.tmp", true},
		{"server.logs", false},
		{"log", false},
		{".log", false}, // dotfile, no extension
		{"trailing.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Match("/any/"+tt.name, tt.name))
		})
	}
}

func TestEmpty(t *testing.T) {
	s := NewSet()
	assert.True(t, s.Empty())
	s.AddPattern("log")
	assert.False(t, s.Empty())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	excluded := filepath.Join(dir, "skipme")
	require.NoError(t, os.Mkdir(excluded, 0o755))

	content := "# comment\n\n" +
		excluded + "\n" +
		"*.log\n" +
		"*.\n" + // malformed pattern, ignored
		filepath.Join(dir, "does-not-exist") + "\n" +
		"gibberish line\n"
	file := filepath.Join(dir, "excludes.txt")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	set, err := LoadFile(file, dir)
	require.NoError(t, err)

	assert.True(t, set.Match(excluded, "skipme"))
	assert.True(t, set.Match("/x/a.log", "a.log"))
	assert.False(t, set.Match(filepath.Join(dir, "does-not-exist"), "does-not-exist"))
	assert.False(t, set.Match("/x/gibberish line", "gibberish line"))
}

func TestLoadFile_RelativeDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0o755))

	file := filepath.Join(dir, "excludes.txt")
	require.NoError(t, os.WriteFile(file, []byte("node_modules\n"), 0o644))

	set, err := LoadFile(file, dir)
	require.NoError(t, err)
	assert.True(t, set.Match(filepath.Join(dir, "node_modules"), "node_modules"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope"), "/")
	assert.Error(t, err)
}
