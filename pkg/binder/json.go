package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxJSONSize is the body size limit for JSON requests (1MB).
const DefaultMaxJSONSize = 1 << 20

// JSON binds an application/json body. Unknown fields are ignored because
// datastar sends every page signal along with the ones a handler reads.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if mediaType(r) != "application/json" {
			return ErrBinderNotApplicable
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
		}
		if len(body) > DefaultMaxJSONSize {
			return fmt.Errorf("%w: request body too large (max %d bytes)", ErrFailedToParseJSON, DefaultMaxJSONSize)
		}
		if len(body) == 0 {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		if err := json.Unmarshal(body, v); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return fmt.Errorf("%w: field %s: expected %s", ErrFailedToParseJSON, typeErr.Field, typeErr.Type)
			}
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}
		return nil
	}
}
