// Package utils provides utility functions for the as7 toolchain.
package utils

import (
	"fmt"
)

func MakeError(err error, detailsBody string, args ...any) error {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}
