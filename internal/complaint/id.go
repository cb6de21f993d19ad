package complaint

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	apperrors "citizenhub/internal/errors"
)

// IDGenerator produces candidate tracking identifiers.
type IDGenerator func() int64

// TimeID returns a generator that derives identifiers from the current
// unix second with a three digit random suffix, e.g. 1760000000123.
//
// Two submissions in the same second collide with probability 1/1000; the
// service re-rolls candidates that already exist in the store.
func TimeID() IDGenerator {
	return func() int64 {
		return time.Now().Unix()*1000 + rand.Int64N(1000)
	}
}

// ParseID converts user input into an identifier.
//
// Anything that is not a positive base-10 integer is reported as
// NotFoundError, the same as an identifier missing from the store.
func ParseID(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFoundError(trimmed)
	}
	return id, nil
}
