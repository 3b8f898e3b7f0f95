package main

import (
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// readJSON aceita JSON literal ou @caminho para um arquivo.
func readJSON(arg string, v any) error {
	raw := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		raw = data
	}
	return json.Unmarshal(raw, v)
}
