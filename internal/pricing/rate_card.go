package pricing

import (
	"fmt"

	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"github.com/shopspring/decimal"
)

type RateCardQuery struct {
	Carrier               ratetable.Carrier
	Postcode              string
	Service               ratetable.ServiceType
	McDowellsSurchargePct decimal.Decimal
}

// RateCard lists one carrier's surcharged price for every pallet count it covers.
type RateCard struct {
	Carrier       ratetable.Carrier
	OutwardCode   string
	MatchedPrefix string
	Service       ratetable.ServiceType
	SurchargePct  decimal.Decimal
	Tiers         []Tier
}

func NewRateCard(table *ratetable.Table, query RateCardQuery) (RateCard, error) {
	if err := ValidateSurcharge(query.McDowellsSurchargePct); err != nil {
		return RateCard{}, err
	}

	outward, err := OutwardCode(query.Postcode)
	if err != nil {
		return RateCard{}, err
	}

	entry, ok := lookupEntry(table, query.Carrier, outward, query.Service)
	if !ok {
		return RateCard{}, fmt.Errorf("%w: no %s %s rates for %s", ErrUnknownPostcode, query.Carrier, query.Service, outward)
	}

	pct := profiles[query.Carrier].surcharge(table, query.McDowellsSurchargePct)

	card := RateCard{
		Carrier:       query.Carrier,
		OutwardCode:   outward,
		MatchedPrefix: entry.PostcodePrefix,
		Service:       query.Service,
		SurchargePct:  pct,
		Tiers:         make([]Tier, 0, entry.MaxPallets()),
	}

	for pallets := 1; pallets <= entry.MaxPallets(); pallets++ {
		card.Tiers = append(card.Tiers, *priceTier(entry, pallets, pct, decimal.Zero))
	}

	return card, nil
}
