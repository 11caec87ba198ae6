package ratetable

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedServiceType = errors.New("unrecognized service type")
	ErrUnknownCarrier          = errors.New("unknown carrier")
)

// MalformedTableError reports a workbook that does not match the declared layout.
// Row is 1-based and zero when the problem is not tied to a row.
type MalformedTableError struct {
	Sheet  string
	Row    int
	Reason string
	Err    error
}

func (e *MalformedTableError) Error() string {
	msg := "malformed rate table"
	if e.Sheet != "" {
		msg += fmt.Sprintf(": sheet %q", e.Sheet)
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *MalformedTableError) Unwrap() error {
	return e.Err
}

func malformed(sheet string, row int, reason string, args ...any) *MalformedTableError {
	return &MalformedTableError{
		Sheet:  sheet,
		Row:    row,
		Reason: fmt.Sprintf(reason, args...),
	}
}
