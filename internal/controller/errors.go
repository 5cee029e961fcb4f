package controller

import (
	"errors"
	"fmt"

	"todoctl/internal/service"
)

// errorMessage turns a repository error into a displayable message.
func errorMessage(err error, fallback string) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ne *service.NetworkError
	if errors.As(err, &ne) {
		if ne.StatusCode != 0 {
			return fmt.Sprintf("%s (http status %d)", fallback, ne.StatusCode)
		}
		return fmt.Sprintf("%s: %v", fallback, ne.Err)
	}
	if err != nil && err.Error() != "" {
		return fmt.Sprintf("%s: %v", fallback, err)
	}
	return fallback
}
