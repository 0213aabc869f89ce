package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"sphv/config"
	"sphv/content"
	"sphv/state"
	"sphv/theme"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="generator" content="Docutils 0.17.1: http://docutils.sourceforge.net/" />
<title>Overview</title>
</head>
<body>
<div class="section"><h1>Overview<a class="headerlink" href="#overview">¶</a></h1>
<p>Hello</p>
<h2>Details<a class="headerlink" href="#details">¶</a></h2>
<p>World</p>
<h3>More<a class="headerlink" href="#more">¶</a></h3>
<p>Text</p></div>
<div class="sphinxsidebar">Navigation</div>
</body>
</html>`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	// name outputs after sources
	cfg.Document.OutputNameTemplate = ""
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	env.Format = config.OutputFmtText
	return ctx, env
}

func testTheme(t *testing.T) *theme.Theme {
	t.Helper()
	return theme.New(nil, zaptest.NewLogger(t))
}

// collector returns processor which remembers names of all handled pages.
func collector(t *testing.T, names *[]string) *processor {
	t.Helper()
	return &processor{
		log: zaptest.NewLogger(t),
		handle: func(_ context.Context, c *content.Content, src string) error {
			if c.Doc == nil || len(c.Doc.TOC) != 2 {
				t.Errorf("page %s was not converted properly", src)
			}
			*names = append(*names, filepath.ToSlash(src))
			return nil
		},
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func utf16Sample(t *testing.T) []byte {
	t.Helper()
	data, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder(), []byte(samplePage))
	if err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	return data
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	var names []string

	err := collector(t, &names).process(ctx, "/nonexistent/path/file.html")
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	if !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	var names []string
	err := collector(t, &names).process(cancelCtx, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_SingleFile(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "overview.html")
	writeFile(t, path, []byte(samplePage))

	var names []string
	p := collector(t, &names)
	if err := p.process(ctx, path); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if !p.single {
		t.Error("single file source not detected")
	}
	if len(names) != 1 || names[0] != "overview.html" {
		t.Errorf("handled %v", names)
	}
}

func TestProcess_NotPage(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, path, []byte("not a page"))

	var names []string
	err := collector(t, &names).process(ctx, path)
	if err == nil || !strings.Contains(err.Error(), "input was not recognized as HTML page") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcess_BrokenSingleFile(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "broken.html")
	writeFile(t, path, []byte("<html><body>\xff\xfe\xfd</body></html>"))

	var names []string
	if err := collector(t, &names).process(ctx, path); err == nil {
		t.Error("Expected error for page with invalid encoding")
	}
}

func TestProcess_DirectoryWithTail(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := filepath.Join(t.TempDir(), "subdir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	var names []string
	if err := collector(t, &names).process(ctx, filepath.Join(dir, "nonexistent.html")); err == nil {
		t.Fatal("Expected error for directory with tail, got nil")
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "page10.html"), []byte(samplePage))
	writeFile(t, filepath.Join(dir, "page2.html"), []byte(samplePage))
	writeFile(t, filepath.Join(dir, "library", "idle.htm"), utf16Sample(t))
	writeFile(t, filepath.Join(dir, "_static", "basic.css"), []byte("body { margin: 0 }"))
	writeFile(t, filepath.Join(dir, "broken.html"), []byte("<html><body>\xff\xfe\xfd</body></html>"))

	var names []string
	p := collector(t, &names)
	if err := p.process(ctx, dir); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	want := []string{"library/idle.htm", "page2.html", "page10.html"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("handled %v, want %v", names, want)
	}
	if p.single {
		t.Error("directory source reported as single file")
	}
}

func TestProcess_EmptyDirectory(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	var names []string
	if err := collector(t, &names).process(ctx, t.TempDir()); err != nil {
		t.Errorf("process() should handle empty directory, got error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("handled %v", names)
	}
}

func TestProcess_Archive(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	zipPath := filepath.Join(t.TempDir(), "docs.zip")
	writeZip(t, zipPath, map[string][]byte{
		"html/index.html":         []byte(samplePage),
		"html/library/idle.html":  []byte(samplePage),
		"html/_static/basic.css":  []byte("body { margin: 0 }"),
		"other/page.html":         []byte(samplePage),
		"html/_images/logo.png":   {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
		"html/library/utf16.html": utf16Sample(t),
	})

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"whole archive", zipPath, []string{"html/index.html", "html/library/idle.html", "html/library/utf16.html", "other/page.html"}},
		{"path in archive", filepath.Join(zipPath, "html", "library"), []string{"html/library/idle.html", "html/library/utf16.html"}},
		{"file in archive", filepath.Join(zipPath, "other", "page.html"), []string{"other/page.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			if err := collector(t, &names).process(ctx, tt.src); err != nil {
				t.Fatalf("process() error = %v", err)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("handled %v, want %v", names, tt.want)
			}
		})
	}
}

func TestProcess_ArchiveInDirectory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	writeZip(t, filepath.Join(dir, "sub", "docs.zip"), map[string][]byte{
		"index.html": []byte(samplePage),
	})

	var names []string
	if err := collector(t, &names).process(ctx, dir); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	want := "/sub/index.html"
	if len(names) != 1 || names[0] != want {
		t.Errorf("handled %v, want [%s]", names, want)
	}
}

func TestProcess_Limit(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := t.TempDir()
	for _, name := range []string{"a.html", "b.html", "c.html"} {
		writeFile(t, filepath.Join(dir, name), []byte(samplePage))
	}
	writeZip(t, filepath.Join(dir, "d.zip"), map[string][]byte{"index.html": []byte(samplePage)})

	var names []string
	p := collector(t, &names)
	p.limit = 1
	if err := p.process(ctx, dir); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if len(names) != 1 || names[0] != "a.html" {
		t.Errorf("handled %v, want only first page", names)
	}
}

func TestProcess_HandlerError(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), []byte(samplePage))
	writeFile(t, filepath.Join(dir, "b.html"), []byte(samplePage))

	calls := 0
	p := &processor{
		log: zaptest.NewLogger(t),
		handle: func(context.Context, *content.Content, string) error {
			calls++
			if calls == 1 {
				panic("broken handler")
			}
			return errors.New("failed")
		},
	}
	// per page failures in directory are logged, processing continues
	if err := p.process(ctx, dir); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
}

func TestConvertPage(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dst := t.TempDir()
	th := testTheme(t)

	c, err := content.Prepare(ctx, strings.NewReader(samplePage), "docs/overview.html", env.Log)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if err := convertPage(ctx, c, "docs/overview.html", dst, th, env.Log); err != nil {
		t.Fatalf("convertPage() error = %v", err)
	}
	out := filepath.Join(dst, "docs", "overview.txt")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output was not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "Overview\n") || !strings.Contains(string(data), "World") {
		t.Errorf("unexpected output:\n%s", data)
	}

	// second time output exists
	if err := convertPage(ctx, c, "docs/overview.html", dst, th, env.Log); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected refusal to overwrite, got %v", err)
	}

	env.Overwrite = true
	if err := convertPage(ctx, c, "docs/overview.html", dst, th, env.Log); err != nil {
		t.Errorf("convertPage() with overwrite error = %v", err)
	}
}

func TestConvertPage_Formats(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.NoDirs = true
	th := testTheme(t)

	c, err := content.Prepare(ctx, strings.NewReader(samplePage), "overview.html", env.Log)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	tests := []struct {
		format config.OutputFmt
		file   string
		marker string
	}{
		{config.OutputFmtText, "overview.txt", "Hello"},
		{config.OutputFmtAnsi, "overview.txt", "\x1b["},
		{config.OutputFmtJson, "overview.json", `"toc"`},
		{config.OutputFmtXhtml, "overview.xhtml", `id="toc2"`},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			dst := t.TempDir()
			env.Format = tt.format
			if err := convertPage(ctx, c, "overview.html", dst, th, env.Log); err != nil {
				t.Fatalf("convertPage() error = %v", err)
			}
			data, err := os.ReadFile(filepath.Join(dst, tt.file))
			if err != nil {
				t.Fatalf("output was not written: %v", err)
			}
			if !bytes.Contains(data, []byte(tt.marker)) {
				t.Errorf("output does not contain %q:\n%s", tt.marker, data)
			}
		})
	}
}

// runCommand executes action as a subcommand of minimal application.
func runCommand(ctx context.Context, t *testing.T, action cli.ActionFunc, flags []cli.Flag, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &cli.Command{
		Name:   "sphv",
		Writer: &out,
		Commands: []*cli.Command{
			{Name: "action", Action: action, Flags: flags},
		},
	}
	err := app.Run(ctx, append([]string{"sphv", "action"}, args...))
	return out.String(), err
}

func TestRun(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "html")
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "overview.html"), []byte(samplePage))
	writeFile(t, filepath.Join(src, "library", "idle.html"), []byte(samplePage))

	flags := []cli.Flag{
		&cli.StringFlag{Name: "to"},
		&cli.BoolFlag{Name: "nodirs"},
		&cli.BoolFlag{Name: "overwrite"},
	}
	if _, err := runCommand(ctx, t, Run, flags, "--to", "json", src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.Format != config.OutputFmtJson {
		t.Errorf("format = %s, want json", env.Format)
	}
	for _, name := range []string{"overview.json", filepath.Join("library", "idle.json")} {
		if _, err := os.Stat(filepath.Join(dst, name)); err != nil {
			t.Errorf("output %s is missing: %v", name, err)
		}
	}

	if _, err := runCommand(ctx, t, Run, flags); err == nil {
		t.Error("expected error without source")
	}
}

func TestToc(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := t.TempDir()
	page := filepath.Join(dir, "overview.html")
	writeFile(t, page, []byte(samplePage))
	writeFile(t, filepath.Join(dir, "second.html"), []byte(samplePage))

	out, err := runCommand(ctx, t, Toc, nil, page)
	if err != nil {
		t.Fatalf("Toc() error = %v", err)
	}
	if want := "toc1\tDetails\ntoc2\tMore\n"; out != want {
		t.Errorf("Toc() single page output = %q, want %q", out, want)
	}

	out, err = runCommand(ctx, t, Toc, nil, dir)
	if err != nil {
		t.Fatalf("Toc() error = %v", err)
	}
	want := "# overview.html\ntoc1\tDetails\ntoc2\tMore\n\n# second.html\ntoc1\tDetails\ntoc2\tMore\n"
	if out != want {
		t.Errorf("Toc() directory output = %q, want %q", out, want)
	}
}

func TestView_NothingToView(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	_, err := runCommand(ctx, t, View, nil, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no pages to view") {
		t.Errorf("unexpected error: %v", err)
	}
}
