package raw

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema raw documents are validated against.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

// Violation is one schema validation failure.
type Violation struct {
	Field       string
	Description string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Description
}

// Validate checks JSON data against the raw document schema. The error is
// non-nil only when data cannot be checked at all.
func Validate(data []byte) ([]Violation, error) {
	var doc any

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return validateLoader(gojsonschema.NewGoLoader(doc))
}

// ValidateDocument checks an in-memory document against the schema.
func ValidateDocument(doc *Document) ([]Violation, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	return Validate(data)
}

// Check returns ErrSchemaViolation describing every violation in data.
func Check(data []byte) error {
	violations, err := Validate(data)
	if err != nil {
		return err
	}

	return violationError(violations)
}

// CheckDocument is Check for an in-memory document.
func CheckDocument(doc *Document) error {
	violations, err := ValidateDocument(doc)
	if err != nil {
		return err
	}

	return violationError(violations)
}

func violationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}

	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
}

func validateLoader(doc gojsonschema.JSONLoader) ([]Violation, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), doc)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	out := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		out = append(out, Violation{Field: re.Field(), Description: re.Description()})
	}

	return out, nil
}
