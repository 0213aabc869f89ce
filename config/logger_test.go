package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggingConfig_FileLog(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "normal", Destination: filepath.Join(dir, "sphv.log"), Mode: "overwrite"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden entry")
	log.Info("visible entry")
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("unable to read log: %v", err)
	}
	if !strings.Contains(string(data), "visible entry") {
		t.Errorf("log misses info entry:\n%s", data)
	}
	if strings.Contains(string(data), "hidden entry") {
		t.Errorf("log contains debug entry at normal level:\n%s", data)
	}
}

func TestLoggingConfig_ReportForcesDebug(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none", Destination: filepath.Join(dir, "sphv.log")},
	}
	rpt := &Report{entries: make(map[string]entry)}

	log, err := conf.PrepareQuiet(rpt)
	if err != nil {
		t.Fatalf("PrepareQuiet() error = %v", err)
	}
	log.Debug("debug entry")
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("unable to read log: %v", err)
	}
	if !strings.Contains(string(data), "debug entry") {
		t.Errorf("log misses debug entry:\n%s", data)
	}
	if _, ok := rpt.entries["final.log"]; !ok {
		t.Error("log was not stored in the report")
	}
	if _, ok := rpt.entries["panic.log"]; !ok {
		t.Error("panic log was not stored in the report")
	}
}

func TestLoggingConfig_NoFile(t *testing.T) {
	conf := LoggingConfig{ConsoleLogger: LoggerConfig{Level: "none"}, FileLogger: LoggerConfig{Level: "none"}}
	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Info("goes nowhere")
}
