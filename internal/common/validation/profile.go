// Package validation checks inbound profiles against the embedded JSON schema
// before they reach the predictor.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"placement-advisor/internal/models"
)

//go:embed profile.schema.json
var profileSchemaJSON []byte

var (
	profileSchemaOnce sync.Once
	profileSchema     *gojsonschema.Schema
	profileSchemaErr  error
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error lists every schema violation of one document.
type Error struct {
	Errors []ValidationError `json:"errors"`
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		msgs[i] = v.Field + ": " + v.Message
	}
	return "profile validation failed: " + strings.Join(msgs, "; ")
}

// Fields returns the offending field names in reported order.
func (e *Error) Fields() []string {
	out := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		out[i] = v.Field
	}
	return out
}

func schema() (*gojsonschema.Schema, error) {
	profileSchemaOnce.Do(func() {
		profileSchema, profileSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(profileSchemaJSON))
	})
	return profileSchema, profileSchemaErr
}

// ValidateProfileJSON validates raw JSON and decodes it into a Profile.
// Schema violations are returned as *Error.
func ValidateProfileJSON(raw []byte) (*models.Profile, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &Error{Errors: []ValidationError{{Field: "(root)", Message: "profile is required", Code: "required"}}}
	}

	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &Error{Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "invalid_json"}}}
	}
	if !result.Valid() {
		verr := &Error{}
		for _, desc := range result.Errors() {
			verr.Errors = append(verr.Errors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
				Code:    desc.Type(),
			})
		}
		return nil, verr
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "invalid_json"}}}
	}
	return &p, nil
}

// ValidateProfile re-checks an already decoded profile, e.g. one read from YAML.
func ValidateProfile(p *models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	_, err = ValidateProfileJSON(raw)
	return err
}
