package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	src := filepath.Join(dir, "idle.html")
	if err := os.WriteFile(src, []byte("<p>original</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	logName := filepath.Join(dir, "final.log")
	if err := os.WriteFile(logName, []byte("log line"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("final.log", logName)
	r.StoreData("doc10/runs.txt", []byte("runs"))
	r.StoreData("doc2/runs.txt", []byte("runs"))
	if err := r.StoreCopy("input", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// later modifications must not affect the copy
	if err := os.WriteFile(src, []byte("<p>changed</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("input", src); err != nil {
		t.Fatalf("second StoreCopy() error = %v", err)
	}
	scratch := append([]string(nil), r.scratch...)

	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["input"] != "<p>original</p>" {
		t.Errorf("input copy = %q", files["input"])
	}
	if files["final.log"] != "log line" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	var versioned bool
	for name, data := range files {
		if strings.HasPrefix(name, "input-") && data == "<p>changed</p>" {
			versioned = true
		}
	}
	if !versioned {
		t.Error("second copy was not stored under versioned name")
	}

	manifest := files["MANIFEST"]
	if i2, i10 := strings.Index(manifest, "doc2/"), strings.Index(manifest, "doc10/"); i2 < 0 || i10 < 0 || i2 > i10 {
		t.Errorf("manifest is not in natural order:\n%s", manifest)
	}

	for _, d := range scratch {
		if _, err := os.Stat(d); !os.IsNotExist(err) {
			t.Errorf("temporary directory %s was not removed", d)
		}
	}
}

func TestReport_StoreCopyRejectsDirectory(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.StoreCopy("dir", t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
	if err := r.StoreCopy("missing", "/nonexistent/file"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReport_OverwritePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("a", []byte("1"))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on overwrite")
		}
	}()
	r.StoreData("a", []byte("2"))
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Error("Name on nil report should be empty")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
