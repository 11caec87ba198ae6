package ratetable

import (
	"fmt"
	"strings"
)

type ServiceType int

const (
	Economy ServiceType = iota + 1
	NextDay
)

var ServiceTypes = []ServiceType{Economy, NextDay}

// serviceLabels maps normalized labels (lowercase, no separators) to services.
var serviceLabels = map[string]ServiceType{
	"economy": Economy,
	"nextday": NextDay,
}

func (s ServiceType) String() string {
	switch s {
	case Economy:
		return "Economy"
	case NextDay:
		return "Next Day"
	default:
		return fmt.Sprintf("ServiceType(%d)", int(s))
	}
}

func (s ServiceType) Slug() string {
	switch s {
	case Economy:
		return "economy"
	case NextDay:
		return "next-day"
	default:
		return ""
	}
}

// ParseServiceType accepts "Economy", "Next Day", "next-day", "NEXT_DAY" and
// similar spellings of the two recognized labels.
func ParseServiceType(label string) (ServiceType, error) {
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(label)))

	service, ok := serviceLabels[normalized]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedServiceType, label)
	}

	return service, nil
}
