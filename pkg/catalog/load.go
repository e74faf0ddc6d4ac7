package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and parses the catalog document at path. The document is
// decoded once; callers are expected to hold on to the returned Catalog
// for the process lifetime (or hand it to a Watcher for hot reload) rather
// than re-loading per request.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document from JSON bytes. Numbers are kept in
// their textual form (json.Number) where exactness matters.
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	return New(&doc), nil
}
