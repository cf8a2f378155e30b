package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var schemaJSON []byte

// ValidateMap validates a generic map against the embedded resume schema.
// Rendering never calls this; it backs the lint command only.
func ValidateMap(m map[string]interface{}) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// ValidateRecord round-trips r through JSON so the schema sees the same
// field names the record files use.
func ValidateRecord(r ResumeRecord) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	return ValidateMap(m)
}
