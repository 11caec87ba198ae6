package ratetable

// Layout declares where the loader finds things in the workbook. Header
// matching is case-insensitive; pallet columns are headers holding 1..N.
type Layout struct {
	Sheets          map[Carrier]string
	HeaderRow       int
	PostcodeHeaders []string
	ServiceHeaders  []string
	SurchargeSheet  string
	SurchargeCell   string
	PricePlaces     int32
}

var DefaultLayout = Layout{
	Sheets: map[Carrier]string{
		Joda:      "Joda",
		McDowells: "McDowells",
	},
	HeaderRow:       2,
	PostcodeHeaders: []string{"postcode", "postcode area", "postcode prefix", "postcodearea"},
	ServiceHeaders:  []string{"service", "service type"},
	SurchargeSheet:  "Joda",
	SurchargeCell:   "B1",
	PricePlaces:     2,
}
