package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/docindex/core"
)

// writeJSON writes v pretty-printed with non-ASCII characters preserved.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// readJSON decodes the file at path into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// readJSONOptional decodes the file if it exists; a missing file leaves
// v untouched and returns false.
func readJSONOptional(path string, v any) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := readJSON(path, v); err != nil {
		return false, err
	}
	return true, nil
}

// readNodes loads one granularity's node file for a stem. A missing file
// yields an empty slice.
func readNodes(path string) ([]core.Node, error) {
	var nodes []core.Node
	if _, err := readJSONOptional(path, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
