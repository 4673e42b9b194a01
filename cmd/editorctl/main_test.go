package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BitOnUranus/base64/internal/config"
	"github.com/BitOnUranus/base64/internal/domain"
	"github.com/BitOnUranus/base64/internal/service/editor"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		StoreBackend: config.StoreFile,
		StoreDir:     t.TempDir(),
		DefaultSlot:  config.DefaultSlotName,
		HTMLPolicy:   config.HTMLPolicyNone,
		MarkdownMode: config.MarkdownRaw,
	}
	a, err := newApp(cfg, cfg.DefaultSlot, "", false)
	require.NoError(t, err)

	var out bytes.Buffer
	a.stdout = &out
	return a, &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCmdIngestAndEncode(t *testing.T) {
	a, out := newTestApp(t)
	path := writeFile(t, "note.html", "<p>Hello</p>")

	require.NoError(t, a.cmdIngest(context.Background(), []string{path}))
	assert.Equal(t, "<p>Hello</p>\n", out.String())

	out.Reset()
	require.NoError(t, a.cmdEncode(context.Background(), []string{path}))
	assert.Equal(t, string(editor.Encode("<p>Hello</p>"))+"\n", out.String())
}

func TestCmdIngestUnsupported(t *testing.T) {
	a, _ := newTestApp(t)
	path := writeFile(t, "image.png", "\x89PNG")

	err := a.cmdIngest(context.Background(), []string{path})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestCmdDecode(t *testing.T) {
	a, out := newTestApp(t)

	require.NoError(t, a.cmdDecode(strings.NewReader("PHA+SGk8L3A+\n")))
	assert.Equal(t, "<p>Hi</p>\n", out.String())

	assert.ErrorIs(t, a.cmdDecode(strings.NewReader("%%%")), domain.ErrDecode)
}

func TestCmdSaveShowExport(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.cmdShow(ctx))
	assert.Empty(t, out.String())

	path := writeFile(t, "draft.txt", "Dear team,")
	require.NoError(t, a.cmdSave(ctx, []string{path}))
	assert.Contains(t, out.String(), "saved draft.txt")

	out.Reset()
	require.NoError(t, a.cmdInsert(ctx, []string{"item-7"}))

	out.Reset()
	require.NoError(t, a.cmdShow(ctx))
	assert.Equal(t, "Dear team,\nBest regards,\n", out.String())

	out.Reset()
	require.NoError(t, a.cmdExport(ctx, nil))
	assert.Equal(t, string(editor.Encode("Dear team,\nBest regards,"))+"\n", out.String())

	out.Reset()
	require.NoError(t, a.cmdExport(ctx, []string{"-format", "markdown"}))
	assert.Contains(t, out.String(), "Best regards,")

	assert.Error(t, a.cmdExport(ctx, []string{"-format", "pdf"}))
}

func TestCmdSaveReplacesCorruptSlot(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(a.cfg.StoreDir, a.slot), []byte("!!!not-base64"), 0o644))

	assert.ErrorIs(t, a.cmdShow(ctx), domain.ErrDecode)
	assert.ErrorIs(t, a.cmdInsert(ctx, []string{"item-7"}), domain.ErrDecode)

	path := writeFile(t, "draft.txt", "Fresh start")
	require.NoError(t, a.cmdSave(ctx, []string{path}))

	out.Reset()
	require.NoError(t, a.cmdShow(ctx))
	assert.Equal(t, "Fresh start\n", out.String())
}

func TestCmdInsertUnknown(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.cmdInsert(context.Background(), []string{"item-99"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCmdSnippets(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.cmdSnippets())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "item-1\t"+editor.DefaultCatalog().Items()[0].Text, lines[0])
}

func TestNewAppInvalidSlot(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreMemory, DefaultSlot: config.DefaultSlotName}
	_, err := newApp(cfg, "../escape", "", false)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
