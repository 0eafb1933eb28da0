package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps the size of decoded request bodies.
const MaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// Global validator instance for reuse
var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodes the request body into the given struct. Unknown fields
// and trailing data are rejected.
func DecodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, MaxBodyBytes+1)
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if len(data) > MaxBodyBytes {
		return ErrBodyTooLarge
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v any) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
