package confkit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFKIT_TEST_DIR", "nested")

	tests := []struct {
		name     string
		base     string
		file     string
		expected string
	}{
		{name: "absolute path", base: "/base/dir", file: "/etc/llm.yaml", expected: "/etc/llm.yaml"},
		{name: "relative path", base: "/base/dir", file: "llm.yaml", expected: "/base/dir/llm.yaml"},
		{name: "relative path with env var", base: "/base/dir", file: "${CONFKIT_TEST_DIR}/market.yaml", expected: "/base/dir/nested/market.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, confkit.ResolvePath(tt.base, tt.file))
		})
	}
}

func TestBaseDir(t *testing.T) {
	require.Equal(t, "/etc/stockchat", confkit.BaseDir("/etc/stockchat/stockchat.yaml"))
	require.Equal(t, "etc", confkit.BaseDir("etc/stockchat.yaml"))
}

func TestSectionHydrate(t *testing.T) {
	t.Run("empty file is a no-op", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(string) (*string, error) {
			t.Fatal("loader should not be called for empty file")
			return nil, nil
		})
		require.NoError(t, err)
		require.False(t, section.Configured())
	})

	t.Run("loader result is stored", func(t *testing.T) {
		section := &confkit.Section[string]{File: "chat.yaml"}
		value := "loaded"
		err := section.Hydrate("/base", func(path string) (*string, error) {
			require.Equal(t, "/base/chat.yaml", path)
			return &value, nil
		})
		require.NoError(t, err)
		require.True(t, section.Configured())
		require.Equal(t, "loaded", *section.Value)
		require.Equal(t, "/base/chat.yaml", section.File)
	})

	t.Run("loader error is returned", func(t *testing.T) {
		section := &confkit.Section[string]{File: "broken.yaml"}
		err := section.Hydrate("/base", func(string) (*string, error) {
			return nil, errors.New("boom")
		})
		require.EqualError(t, err, "boom")
		require.False(t, section.Configured())
	})
}

func TestProjectRoot(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer func() { _ = os.Chdir(wd) }()

	got, err := confkit.ProjectRoot()
	require.NoError(t, err)
	require.Equal(t, root, got)

	p, err := confkit.ProjectPath("etc/chat.yaml")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "etc", "chat.yaml"), p)
}
