// Package secrets resolves credential values (the Gemini api key, the smtp
// password) from files or inline config without ever logging them.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from.
type Source struct {
	// Name appears in error messages so the operator knows which secret
	// failed to resolve.
	Name string
	// Value is an inline secret from config or flags.
	Value string
	// File points to a file holding the secret. When set it takes precedence
	// over Value.
	File string
}

// Load resolves the secret, preferring File over Value, and trims
// surrounding whitespace. An empty result is an error, with the file path
// named when one was read.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
