package quoting

import (
	"bitbucket.org/crgw/haulier-rates/internal/pricing"
	"bitbucket.org/crgw/haulier-rates/internal/schema"
	"bitbucket.org/crgw/haulier-rates/internal/surcharge"
	"bitbucket.org/crgw/haulier-rates/internal/tools/converting"
)

func newTier(tier pricing.Tier) schema.Tier {
	return schema.Tier{
		Pallets:        tier.Pallets,
		Shipments:      tier.Shipments,
		Base:           schema.Money(tier.Base),
		Surcharged:     schema.Money(tier.Surcharged),
		DeliveryCharge: schema.Money(tier.DeliveryCharge),
		Final:          schema.Money(tier.Final),
	}
}

func newQuoteResponse(result pricing.QuoteResult, joda surcharge.Record) schema.QuoteResponse {
	response := schema.QuoteResponse{
		OutwardCode:      result.OutwardCode,
		Service:          result.Service.String(),
		Pallets:          result.Pallets,
		JodaSurcharge:    newSurchargeInfo(joda),
		Carriers:         make([]schema.CarrierQuote, 0, len(result.Carriers)),
		CheapestCarriers: make([]string, 0, len(result.Cheapest)),
	}

	for _, quote := range result.Carriers {
		response.Carriers = append(response.Carriers, schema.CarrierQuote{
			Carrier:       quote.Carrier.String(),
			Available:     quote.Available,
			Reason:        quote.Reason,
			MatchedPrefix: quote.MatchedPrefix,
			SurchargePct:  schema.Percent(quote.SurchargePct),
			MaxPallets:    quote.MaxPallets,
			Cheapest:      result.IsCheapest(quote.Carrier),
			Below:         converting.MapPointer(quote.Below, newTier),
			Requested:     converting.MapPointer(quote.Requested, newTier),
			Above:         converting.MapPointer(quote.Above, newTier),
			BelowClamped:  quote.BelowClamped,
			AboveClamped:  quote.AboveClamped,
		})
	}

	for _, carrier := range result.Cheapest {
		response.CheapestCarriers = append(response.CheapestCarriers, carrier.String())
	}

	return response
}

func newRateCardResponse(card pricing.RateCard) schema.RateCardResponse {
	response := schema.RateCardResponse{
		Carrier:       card.Carrier.String(),
		OutwardCode:   card.OutwardCode,
		MatchedPrefix: card.MatchedPrefix,
		Service:       card.Service.String(),
		SurchargePct:  schema.Percent(card.SurchargePct),
		Tiers:         make([]schema.Tier, 0, len(card.Tiers)),
	}

	for _, tier := range card.Tiers {
		response.Tiers = append(response.Tiers, newTier(tier))
	}

	return response
}

func newSurchargeInfo(record surcharge.Record) schema.SurchargeInfo {
	info := schema.SurchargeInfo{
		Pct:    schema.Percent(record.Pct),
		Source: string(record.Source),
	}

	if !record.UpdatedAt.IsZero() {
		info.UpdatedAt = converting.PointerToValue(record.UpdatedAt)
	}

	if !record.ExpiresAt.IsZero() {
		info.ExpiresAt = converting.PointerToValue(record.ExpiresAt)
	}

	return info
}
