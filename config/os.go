package config

import (
	"os"
	"strings"
	"unicode"
)

// CleanFileName removes characters not allowed in file names, titles often
// carry some.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		switch {
		case unicode.IsControl(sym):
			return -1
		case strings.ContainsRune(forbiddenNameChars+string(os.PathSeparator)+string(os.PathListSeparator), sym):
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(strings.TrimSpace(out), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible. NO_COLOR
// environment variable turns color off.
func EnableColorOutput(stream *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return enableTerminalColors(stream)
}
