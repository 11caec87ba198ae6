package schema

type RateCardRequestParams struct {
	Postcode              string `form:"postcode" url:"postcode"`
	Service               string `form:"service" url:"service"`
	McDowellsSurchargePct string `form:"mcdowellsSurchargePct" url:"mcdowellsSurchargePct,omitempty"`
}

type RateCardResponse struct {
	Carrier       string  `json:"carrier"`
	OutwardCode   string  `json:"outwardCode"`
	MatchedPrefix string  `json:"matchedPrefix"`
	Service       string  `json:"service"`
	SurchargePct  Percent `json:"surchargePct"`
	Tiers         []Tier  `json:"tiers"`
}

type AreasRequestParams struct {
	Service string `form:"service" url:"service,omitempty"`
}

type AreasResponse struct {
	Service  string   `json:"service,omitempty"`
	Prefixes []string `json:"prefixes"`
}
