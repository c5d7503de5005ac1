package formats

import "time"

// IsDateTime reports whether s is an RFC 3339 date-time. Fractional seconds
// are optional.
func IsDateTime(s string) bool {
	_, err := ParseDateTime(s)
	return err == nil
}

// ParseDateTime parses an RFC 3339 date-time, accepting RFC3339Nano first.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
