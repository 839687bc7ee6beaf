package repositories

import (
	"errors"
	"fmt"
	"strconv"
)

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	var e *ErrNotFound
	return errors.As(err, &e)
}

// Fingerprints are stored as fixed width hex, SQL integers are signed.
func formatFingerprint(fingerprint uint64) string {
	return fmt.Sprintf("%016x", fingerprint)
}

func parseFingerprint(s string) (uint64, error) {
	fingerprint, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse fingerprint %q: %v", s, err)
	}
	return fingerprint, nil
}
