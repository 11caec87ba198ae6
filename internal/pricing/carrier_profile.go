package pricing

import (
	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"github.com/shopspring/decimal"
)

// carrierProfile holds the per-carrier rules that are not part of the workbook.
type carrierProfile struct {
	// surcharge comes from the table rather than the query
	tableSurcharge bool
	amPmCharge     decimal.Decimal
	timedCharge    decimal.Decimal
	dualCollection bool
}

var profiles = map[ratetable.Carrier]carrierProfile{
	ratetable.Joda: {
		tableSurcharge: true,
		amPmCharge:     decimal.NewFromInt(7),
		timedCharge:    decimal.NewFromInt(19),
		dualCollection: true,
	},
	ratetable.McDowells: {
		amPmCharge:  decimal.NewFromInt(10),
		timedCharge: decimal.NewFromInt(19),
	},
}

// deliveryCharge is charged once per shipment.
func (p carrierProfile) deliveryCharge(extras Extras) decimal.Decimal {
	charge := decimal.Zero
	if extras.AMPMDelivery {
		charge = charge.Add(p.amPmCharge)
	}
	if extras.TimedDelivery {
		charge = charge.Add(p.timedCharge)
	}

	return charge
}

func (p carrierProfile) surcharge(table *ratetable.Table, queryPct decimal.Decimal) decimal.Decimal {
	if p.tableSurcharge {
		return table.JodaSurcharge()
	}

	return queryPct
}

// SupportsDualCollection reports whether the carrier prices split collections.
func SupportsDualCollection(carrier ratetable.Carrier) bool {
	return profiles[carrier].dualCollection
}
