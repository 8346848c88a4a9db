package survey

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFileName is returned when a snapshot name does not carry a valid
// YYYYMMDD_HHMM prefix.
var ErrInvalidFileName = errors.New("invalid snapshot file name")

// fileNameLayout is the prefix layout with the separator at index 8 removed.
const fileNameLayout = "200601021504"

// minNameLength covers YYYYMMDD, one separator and HHMM.
const minNameLength = 13

// ParseTimestamp extracts the survey time from a snapshot name laid out as
// YYYYMMDD_HHMM. The character at index 8 is a separator and is not checked;
// anything after index 12 is ignored. The result is in UTC with minute precision.
func ParseTimestamp(name string) (time.Time, error) {
	if len(name) < minNameLength {
		return time.Time{}, fmt.Errorf("%w %q: need at least %d characters", ErrInvalidFileName, name, minNameLength)
	}

	digits := name[0:8] + name[9:13]
	ts, err := time.Parse(fileNameLayout, digits)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidFileName, name, err)
	}

	return ts, nil
}
