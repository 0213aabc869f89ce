package state

import (
	"fmt"
	"os"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// LoadStylesheet reads stylesheet configured for the document presentation,
// if any. Must be called after configuration is loaded.
func (e *LocalEnv) LoadStylesheet() error {
	if e.Cfg == nil || len(e.Cfg.Document.StylesheetPath) == 0 {
		return nil
	}
	data, err := os.ReadFile(e.Cfg.Document.StylesheetPath)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	e.Stylesheet = data
	e.Rpt.Store("stylesheet.css", e.Cfg.Document.StylesheetPath)
	return nil
}
