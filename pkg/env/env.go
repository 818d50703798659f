package env

import (
	"fmt"
	"strconv"
	"time"
)

type Error struct {
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("unable to access environment variable: %s", e.Name)
}

type TypeError struct {
	Name string
	Err  error
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to convert environment variable: %s: %s", e.Name, e.Err)
	}
	return fmt.Sprintf("unable to convert environment variable: %s", e.Name)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// ParseDuration accepts Go duration strings and bare integers, which are
// taken as seconds. Negative values are turned positive.
func ParseDuration(s string) (time.Duration, error) {
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse duration: %w", err)
	}
	if d < 0 {
		d = -d
	}

	return d, nil
}
