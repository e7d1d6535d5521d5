package extract

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadDate is returned when a timestamp is not in the archive's
// "Mon DD, YYYY" form.
var ErrBadDate = errors.New("date not in \"Mon DD, YYYY\" format")

const archiveDateLayout = "Jan 2, 2006"

// ParseDate parses an archive timestamp such as "Mar 7, 2014" into the
// date at midnight UTC. The text must match exactly; surrounding
// whitespace is an error.
func ParseDate(text string) (time.Time, error) {
	date, err := time.Parse(archiveDateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, text)
	}
	return date, nil
}
