package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSONAtomic writes v as indented JSON via a temp file rename so a
// crashed run never leaves a half-written results document behind.
func WriteJSONAtomic(path string, v any) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp json: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp json: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp json: %w", err)
	}
	return nil
}

func WriteTextAtomic(path string, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.txt")
	if err != nil {
		return fmt.Errorf("create temp text: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp text: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp text: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp text: %w", err)
	}
	return nil
}
