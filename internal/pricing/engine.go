package pricing

import (
	"fmt"

	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"github.com/shopspring/decimal"
)

const (
	ReasonNoRate     = "no rate for postcode and service"
	ReasonOutOfRange = "pallet count outside priced range"
)

// Extras are optional delivery services, charged per shipment.
type Extras struct {
	AMPMDelivery   bool
	TimedDelivery  bool
	DualCollection *Split
}

// Split divides one consignment between two collection points. Only carriers
// supporting dual collection price it as two shipments.
type Split struct {
	First  int
	Second int
}

type Query struct {
	Postcode              string
	Service               ratetable.ServiceType
	Pallets               int
	McDowellsSurchargePct decimal.Decimal
	Extras                Extras
}

type Tier struct {
	Pallets   int
	Shipments int
	Base      decimal.Decimal
	// Surcharged is the base price with fuel surcharge, rounded, before delivery charges
	Surcharged     decimal.Decimal
	DeliveryCharge decimal.Decimal
	Final          decimal.Decimal
}

type CarrierQuote struct {
	Carrier       ratetable.Carrier
	Available     bool
	Reason        string
	MatchedPrefix string
	SurchargePct  decimal.Decimal
	MaxPallets    int

	// nil when clamped, or when the count is not priced by this carrier
	Below     *Tier
	Requested *Tier
	Above     *Tier

	BelowClamped bool
	AboveClamped bool
}

type QuoteResult struct {
	OutwardCode string
	Service     ratetable.ServiceType
	Pallets     int
	Carriers    []CarrierQuote
	// every carrier sharing the lowest final price at the requested count
	Cheapest []ratetable.Carrier
}

func (r QuoteResult) Carrier(carrier ratetable.Carrier) (CarrierQuote, bool) {
	for _, quote := range r.Carriers {
		if quote.Carrier == carrier {
			return quote, true
		}
	}

	return CarrierQuote{}, false
}

func (r QuoteResult) IsCheapest(carrier ratetable.Carrier) bool {
	for _, c := range r.Cheapest {
		if c == carrier {
			return true
		}
	}

	return false
}

// Quote prices the query for every carrier. It only reads the table.
func Quote(table *ratetable.Table, query Query) (QuoteResult, error) {
	if err := ValidateSurcharge(query.McDowellsSurchargePct); err != nil {
		return QuoteResult{}, err
	}

	if query.Pallets < 1 {
		return QuoteResult{}, fmt.Errorf("%w: %d pallets", ErrPalletCountOutOfRange, query.Pallets)
	}

	if err := query.Extras.validate(query.Pallets); err != nil {
		return QuoteResult{}, err
	}

	outward, err := OutwardCode(query.Postcode)
	if err != nil {
		return QuoteResult{}, err
	}

	result := QuoteResult{
		OutwardCode: outward,
		Service:     query.Service,
		Pallets:     query.Pallets,
	}

	found, inRange := 0, 0
	for _, carrier := range ratetable.Carriers {
		entry, ok := lookupEntry(table, carrier, outward, query.Service)
		if !ok {
			result.Carriers = append(result.Carriers, CarrierQuote{Carrier: carrier, Reason: ReasonNoRate})
			continue
		}
		found++

		// neighbours are only quoted around a priced count
		if query.Pallets > entry.MaxPallets() {
			result.Carriers = append(result.Carriers, CarrierQuote{
				Carrier:       carrier,
				Reason:        ReasonOutOfRange,
				MatchedPrefix: entry.PostcodePrefix,
				MaxPallets:    entry.MaxPallets(),
			})
			continue
		}
		inRange++

		profile := profiles[carrier]
		result.Carriers = append(result.Carriers, priceCarrier(entry, profile, profile.surcharge(table, query.McDowellsSurchargePct), query))
	}

	if found == 0 {
		return QuoteResult{}, fmt.Errorf("%w: no %s rates for %s", ErrUnknownPostcode, query.Service, outward)
	}

	if inRange == 0 {
		return QuoteResult{}, fmt.Errorf("%w: %d pallets for %s", ErrPalletCountOutOfRange, query.Pallets, outward)
	}

	result.Cheapest = cheapest(result.Carriers)

	return result, nil
}

func (e Extras) validate(pallets int) error {
	split := e.DualCollection
	if split == nil {
		return nil
	}

	if split.First < 1 || split.Second < 1 {
		return fmt.Errorf("%w: both groups need at least one pallet", ErrInvalidDualCollection)
	}

	if split.First+split.Second != pallets {
		return fmt.Errorf("%w: %d + %d does not equal %d pallets", ErrInvalidDualCollection, split.First, split.Second, pallets)
	}

	return nil
}

// lookupEntry tries the outward code first and falls back to the postcode area.
func lookupEntry(table *ratetable.Table, carrier ratetable.Carrier, outward string, service ratetable.ServiceType) (ratetable.RateEntry, bool) {
	if entry, ok := table.Lookup(carrier, outward, service); ok {
		return entry, true
	}

	if area := PostcodeArea(outward); area != "" && area != outward {
		return table.Lookup(carrier, area, service)
	}

	return ratetable.RateEntry{}, false
}

func priceCarrier(entry ratetable.RateEntry, profile carrierProfile, pct decimal.Decimal, query Query) CarrierQuote {
	delivery := profile.deliveryCharge(query.Extras)

	quote := CarrierQuote{
		Carrier:       entry.Carrier,
		Available:     true,
		MatchedPrefix: entry.PostcodePrefix,
		SurchargePct:  pct,
		MaxPallets:    entry.MaxPallets(),
		BelowClamped:  query.Pallets-1 < 1,
		AboveClamped:  query.Pallets+1 > entry.MaxPallets(),
	}

	if !quote.BelowClamped {
		quote.Below = priceTier(entry, query.Pallets-1, pct, delivery)
	}

	if !quote.AboveClamped {
		quote.Above = priceTier(entry, query.Pallets+1, pct, delivery)
	}

	if split := query.Extras.DualCollection; split != nil && profile.dualCollection {
		quote.Requested = priceSplit(entry, query.Pallets, *split, pct, delivery)
	} else {
		quote.Requested = priceTier(entry, query.Pallets, pct, delivery)
	}

	return quote
}

func priceTier(entry ratetable.RateEntry, pallets int, pct decimal.Decimal, delivery decimal.Decimal) *Tier {
	base, ok := entry.Price(pallets)
	if !ok {
		return nil
	}

	surcharged := ApplySurcharge(base, pct)

	return &Tier{
		Pallets:        pallets,
		Shipments:      1,
		Base:           base,
		Surcharged:     surcharged,
		DeliveryCharge: delivery,
		Final:          surcharged.Add(delivery),
	}
}

// priceSplit prices each group as its own shipment and sums them.
func priceSplit(entry ratetable.RateEntry, pallets int, split Split, pct decimal.Decimal, delivery decimal.Decimal) *Tier {
	first := priceTier(entry, split.First, pct, delivery)
	second := priceTier(entry, split.Second, pct, delivery)
	if first == nil || second == nil {
		return nil
	}

	return &Tier{
		Pallets:        pallets,
		Shipments:      2,
		Base:           first.Base.Add(second.Base),
		Surcharged:     first.Surcharged.Add(second.Surcharged),
		DeliveryCharge: first.DeliveryCharge.Add(second.DeliveryCharge),
		Final:          first.Final.Add(second.Final),
	}
}

func cheapest(quotes []CarrierQuote) []ratetable.Carrier {
	var (
		best     decimal.Decimal
		carriers []ratetable.Carrier
	)

	for _, quote := range quotes {
		if quote.Requested == nil {
			continue
		}

		final := quote.Requested.Final
		switch {
		case len(carriers) == 0 || final.LessThan(best):
			best = final
			carriers = []ratetable.Carrier{quote.Carrier}
		case final.Equal(best):
			carriers = append(carriers, quote.Carrier)
		}
	}

	return carriers
}
