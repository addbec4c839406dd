package submission

import (
	"encoding/json"
	"fmt"

	apperrors "signedsubmit/internal/pkg/errors"
)

// ValidateResponse returns the receipt from a decoded reply. A falsy success flag
// rejects the submission; a truthy one without a receipt is also an error.
func ValidateResponse(body map[string]interface{}) (string, error) {
	if !truthy(body["success"]) {
		return "", &apperrors.SubmissionRejectedError{Response: body}
	}

	receipt := body["receipt"]
	if !truthy(receipt) {
		return "", &apperrors.MissingReceiptError{Response: body}
	}

	if s, ok := receipt.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Sprintf("%v", receipt), nil
	}
	return string(b), nil
}

// truthy treats null, false, 0, "" and empty arrays or objects as false.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return true
	}
}
