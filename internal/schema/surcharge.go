package schema

import "time"

type SurchargeInfo struct {
	Pct       Percent    `json:"pct"`
	Source    string     `json:"source"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type SaveSurchargeRequest struct {
	Pct *Percent `json:"pct" binding:"required"`
}
