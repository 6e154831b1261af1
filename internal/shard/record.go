package shard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Record is one processed document stored in a shard file. SHA256 is the
// digest of the source PDF bytes and identifies the document everywhere
// in the pipeline.
type Record struct {
	SHA256        string   `json:"sha256"`
	DateProcessed string   `json:"dateprocessed"`
	Text          []string `json:"text"`
}

// PlainText returns the document text with pages joined by newlines
func (r Record) PlainText() string {
	return strings.Join(r.Text, "\n")
}

const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["sha256", "dateprocessed", "text"],
  "properties": {
    "sha256": {
      "type": "string",
      "pattern": "^[0-9a-f]{64}$"
    },
    "dateprocessed": {
      "type": "string",
      "minLength": 1
    },
    "text": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var schema = jsonschema.MustCompileString("record.json", recordSchema)

// ValidateRecord checks one raw shard line against the record schema
func ValidateRecord(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}

	return nil
}
