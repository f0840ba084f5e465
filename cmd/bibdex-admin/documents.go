package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	domdoc "github.com/bibdex/bibdex/internal/domain/document"
)

// readDocuments decodes a JSON array or a YAML list of records.
func readDocuments(r io.Reader) ([]domdoc.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []map[string]any
	if data[0] == '[' {
		err = json.Unmarshal(data, &records)
	} else {
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(records))
	for i, rec := range records {
		d, err := domdoc.FromSource(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
