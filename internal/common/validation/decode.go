package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"contract-workers/internal/common/errors"
)

// DecodeJobVariables checks variables against schema and decodes them into out.
// Both failures come back as INPUT_PARSING_FAILED; schema violations are
// attached as validationErrors.
func DecodeJobVariables(schema *Schema, variables string, out interface{}) error {
	if schema != nil {
		result, err := schema.ValidateJSON(variables)
		if err != nil {
			return errors.NewInputParsingFailedError(err)
		}
		if !result.Valid {
			cause := fmt.Errorf("invalid job variables: %s", strings.Join(result.GetErrorMessages(), "; "))
			return errors.NewInputParsingFailedError(cause).WithMetadata("validationErrors", result.Errors)
		}
	}

	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInputParsingFailedError(fmt.Errorf("parse input: %w", err))
	}
	return nil
}
