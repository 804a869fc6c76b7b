package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/YoshihikoAbe/epubtools/doctor"
	"github.com/YoshihikoAbe/epubtools/fontobf"
	"github.com/YoshihikoAbe/epubtools/namecrypt"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate moves the test into an empty working directory and home so that no
// real configuration is picked up. It returns the new home.
func isolate(t *testing.T) string {
	t.Helper()

	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	home := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", home)
	t.Setenv("EPUB_LOG", "error")
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		cfgFile = ""
		doctorCmd.Flags().Set("json", "false")
		restoreLog()
		restoreLog = func() {}
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEncryptFontUsage(t *testing.T) {
	isolate(t)

	for _, args := range [][]string{{}, {"book.epub"}} {
		out, err := execute(t, append([]string{"encrypt-font"}, args...)...)

		require.ErrorIs(t, err, fontobf.ErrUsage)
		assert.Equal(t, "用法: epubtools encrypt-font <epub_path> <output_path> [--families ...]\n", out)
	}
}

func TestEncryptFontNotImplemented(t *testing.T) {
	isolate(t)

	for _, args := range [][]string{
		{"book.epub", "out.epub"},
		{"book.epub", "out.epub", "--families", "Arial", "Helvetica"},
	} {
		out, err := execute(t, append([]string{"encrypt-font"}, args...)...)

		require.ErrorIs(t, err, fontobf.ErrNotImplemented)
		assert.Equal(t, "字体混淆: book.epub -> out.epub\n尚未实现 — 请等待 Sprint 3\n", out)

		_, statErr := os.Stat("out.epub")
		assert.True(t, os.IsNotExist(statErr))
	}
}

func TestEncryptFontIgnoresBrokenConfig(t *testing.T) {
	home := isolate(t)
	t.Setenv("EPUB_LOG", "")

	file := filepath.Join(home, ".config", "epub-tools", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte(`{"log": {"level": "loud"}}`), 0644))

	out, err := execute(t, "encrypt-font", "book.epub", "out.epub")
	require.ErrorIs(t, err, fontobf.ErrNotImplemented)
	assert.Equal(t, "字体混淆: book.epub -> out.epub\n尚未实现 — 请等待 Sprint 3\n", out)

	// other commands refuse the invalid configuration
	_, err = execute(t, "name", "chapter1")
	assert.ErrorContains(t, err, "invalid config")
}

func TestEncryptFontConfigFlag(t *testing.T) {
	isolate(t)

	file := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"pythonPath": "python3.12"}`), 0644))

	for _, args := range [][]string{
		{"--config", file, "encrypt-font", "book.epub", "out.epub"},
		{"-c", file, "encrypt-font", "book.epub", "out.epub", "--families", "Arial"},
		{"--config=" + file, "encrypt-font", "book.epub", "out.epub"},
	} {
		out, err := execute(t, args...)

		require.ErrorIs(t, err, fontobf.ErrNotImplemented)
		assert.Equal(t, "字体混淆: book.epub -> out.epub\n尚未实现 — 请等待 Sprint 3\n", out)
		require.NotNil(t, current)
		assert.Equal(t, file, current.File)
		assert.Equal(t, "python3.12", current.PythonPath)
	}
}

func TestSplitConfigFlag(t *testing.T) {
	tests := []struct {
		args []string
		file string
		rest []string
	}{
		{nil, "", nil},
		{[]string{"a", "b"}, "", []string{"a", "b"}},
		{[]string{"-c", "x.json", "a"}, "x.json", []string{"a"}},
		{[]string{"-c=x.json", "a", "--config", "y"}, "x.json", []string{"a", "--config", "y"}},
		{[]string{"--config"}, "", []string{}},
	}

	for _, tt := range tests {
		file, rest := splitConfigFlag(tt.args)
		assert.Equal(t, tt.file, file)
		assert.Equal(t, tt.rest, rest)
	}
}

func TestEncryptFontWritesNoLogFile(t *testing.T) {
	isolate(t)
	t.Setenv("EPUB_LOG", "debug")

	logFile := filepath.Join(t.TempDir(), "epubtools.log")
	cfg := `{"log": {"level": "debug", "file": "` + filepath.ToSlash(logFile) + `"}}`
	require.NoError(t, os.WriteFile(".epub-tools.json", []byte(cfg), 0644))

	_, err := execute(t, "encrypt-font", "book.epub", "out.epub")
	require.ErrorIs(t, err, fontobf.ErrNotImplemented)

	_, statErr := os.Stat(logFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestName(t *testing.T) {
	isolate(t)

	out, err := execute(t, "name", "chapter1")
	require.NoError(t, err)
	assert.Equal(t, namecrypt.GenerateName("chapter1")+"\n", out)

	out, err = execute(t, "name", "chapter1.xhtml", "Text/chapter1.xhtml")
	require.NoError(t, err)
	assert.Equal(t, namecrypt.BuildFilename("chapter1.xhtml", "Text/chapter1.xhtml")+"\n", out)

	_, err = execute(t, "name")
	assert.Error(t, err)
}

func TestDoctor(t *testing.T) {
	isolate(t)

	doctorRunner = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		if name == "git" {
			return []byte("git version 2.43.0\n"), nil, nil
		}
		return nil, nil, errors.New("not found")
	}
	t.Cleanup(func() { doctorRunner = doctor.ExecRunner })

	out, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Git (可选): git version 2.43.0")
	assert.Contains(t, out, "⚠️ oxipng (可选): 未安装")
	assert.Contains(t, out, "💡 PNG 压缩需要。")
	assert.Contains(t, out, "所有必需工具已就绪")

	out, err = execute(t, "doctor", "--json")
	require.NoError(t, err)
	var statuses []doctor.Status
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.Len(t, statuses, 6)
	assert.Equal(t, "Git", statuses[5].Name)
	assert.True(t, statuses[5].Available)
}

func TestPrintStatusesMissingRequired(t *testing.T) {
	buf := &bytes.Buffer{}
	statuses := []doctor.Status{{Name: "Python", Required: true, InstallHint: "pip"}}
	printStatuses(buf, statuses, 1)

	assert.Contains(t, buf.String(), "❌ Python (必需): 未安装")
	assert.Contains(t, buf.String(), "有 1 个必需工具未安装")
}
