package ratetable

import (
	"fmt"
	"strings"
)

type Carrier int

const (
	Joda Carrier = iota + 1
	McDowells
)

// Carriers lists every carrier in the order results are reported.
var Carriers = []Carrier{Joda, McDowells}

func (c Carrier) String() string {
	switch c {
	case Joda:
		return "Joda"
	case McDowells:
		return "McDowells"
	default:
		return fmt.Sprintf("Carrier(%d)", int(c))
	}
}

// Slug is the identifier used in URLs and JSON.
func (c Carrier) Slug() string {
	return strings.ToLower(c.String())
}

func ParseCarrier(value string) (Carrier, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, carrier := range Carriers {
		if carrier.Slug() == normalized {
			return carrier, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCarrier, value)
}
