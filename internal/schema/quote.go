package schema

type QuoteRequestParams struct {
	Postcode              string `form:"postcode" url:"postcode"`
	Service               string `form:"service" url:"service"`
	Pallets               int    `form:"pallets" url:"pallets"`
	McDowellsSurchargePct string `form:"mcdowellsSurchargePct" url:"mcdowellsSurchargePct,omitempty"`
	AmPm                  bool   `form:"amPm" url:"amPm,omitempty"`
	Timed                 bool   `form:"timed" url:"timed,omitempty"`
	DualCollection        bool   `form:"dualCollection" url:"dualCollection,omitempty"`
	FirstGroup            int    `form:"firstGroup" url:"firstGroup,omitempty"`
	SecondGroup           int    `form:"secondGroup" url:"secondGroup,omitempty"`
}

type Tier struct {
	Pallets        int   `json:"pallets"`
	Shipments      int   `json:"shipments"`
	Base           Money `json:"base"`
	Surcharged     Money `json:"surcharged"`
	DeliveryCharge Money `json:"deliveryCharge"`
	Final          Money `json:"final"`
}

type CarrierQuote struct {
	Carrier       string  `json:"carrier"`
	Available     bool    `json:"available"`
	Reason        string  `json:"reason,omitempty"`
	MatchedPrefix string  `json:"matchedPrefix,omitempty"`
	SurchargePct  Percent `json:"surchargePct"`
	MaxPallets    int     `json:"maxPallets,omitempty"`
	Cheapest      bool    `json:"cheapest"`
	Below         *Tier   `json:"below"`
	Requested     *Tier   `json:"requested"`
	Above         *Tier   `json:"above"`
	BelowClamped  bool    `json:"belowClamped"`
	AboveClamped  bool    `json:"aboveClamped"`
}

type QuoteResponse struct {
	OutwardCode      string         `json:"outwardCode"`
	Service          string         `json:"service"`
	Pallets          int            `json:"pallets"`
	JodaSurcharge    SurchargeInfo  `json:"jodaSurcharge"`
	Carriers         []CarrierQuote `json:"carriers"`
	CheapestCarriers []string       `json:"cheapestCarriers"`
}
