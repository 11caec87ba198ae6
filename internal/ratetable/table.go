package ratetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RateEntry is one carrier's prices for a postcode prefix and service.
// Prices[i] is the price for i+1 pallets.
type RateEntry struct {
	Carrier        Carrier
	PostcodePrefix string
	Service        ServiceType
	Prices         []decimal.Decimal
}

func (e RateEntry) MaxPallets() int {
	return len(e.Prices)
}

func (e RateEntry) Price(pallets int) (decimal.Decimal, bool) {
	if pallets < 1 || pallets > len(e.Prices) {
		return decimal.Decimal{}, false
	}

	return e.Prices[pallets-1], true
}

type entryKey struct {
	carrier Carrier
	prefix  string
	service ServiceType
}

// Table is read-only once built and safe for concurrent use.
type Table struct {
	entries       map[entryKey]RateEntry
	jodaSurcharge decimal.Decimal
	maxPallets    int
}

// NewTable indexes entries by (carrier, prefix, service). Later entries replace
// earlier ones with the same key. Price slices are copied.
func NewTable(entries []RateEntry, jodaSurcharge decimal.Decimal) (*Table, error) {
	if jodaSurcharge.IsNegative() {
		return nil, fmt.Errorf("joda surcharge %s is negative", jodaSurcharge)
	}

	table := &Table{
		entries:       make(map[entryKey]RateEntry, len(entries)),
		jodaSurcharge: jodaSurcharge,
	}

	for _, entry := range entries {
		prefix := NormalizePrefix(entry.PostcodePrefix)
		if prefix == "" {
			return nil, fmt.Errorf("%s entry without postcode prefix", entry.Carrier)
		}
		if len(entry.Prices) == 0 {
			return nil, fmt.Errorf("%s entry %s has no prices", entry.Carrier, prefix)
		}

		prices := make([]decimal.Decimal, len(entry.Prices))
		copy(prices, entry.Prices)

		entry.PostcodePrefix = prefix
		entry.Prices = prices

		table.entries[entryKey{entry.Carrier, prefix, entry.Service}] = entry
		if len(prices) > table.maxPallets {
			table.maxPallets = len(prices)
		}
	}

	return table, nil
}

func (t *Table) Lookup(carrier Carrier, prefix string, service ServiceType) (RateEntry, bool) {
	entry, ok := t.entries[entryKey{carrier, NormalizePrefix(prefix), service}]
	return entry, ok
}

// JodaSurcharge is the percentage held in the workbook's surcharge cell.
func (t *Table) JodaSurcharge() decimal.Decimal {
	return t.jodaSurcharge
}

// WithJodaSurcharge returns a table sharing t's entries but using pct for Joda.
func (t *Table) WithJodaSurcharge(pct decimal.Decimal) *Table {
	return &Table{
		entries:       t.entries,
		jodaSurcharge: pct,
		maxPallets:    t.maxPallets,
	}
}

// MaxPallets is the widest price range of any entry.
func (t *Table) MaxPallets() int {
	return t.maxPallets
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Prefixes returns the sorted, distinct prefixes priced by any carrier. A zero
// service matches every service.
func (t *Table) Prefixes(service ServiceType) []string {
	seen := make(map[string]struct{})
	for key := range t.entries {
		if service != 0 && key.service != service {
			continue
		}
		seen[key.prefix] = struct{}{}
	}

	prefixes := make([]string, 0, len(seen))
	for prefix := range seen {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	return prefixes
}

// NormalizePrefix trims, uppercases and removes inner whitespace.
func NormalizePrefix(prefix string) string {
	return strings.Join(strings.Fields(strings.ToUpper(prefix)), "")
}
