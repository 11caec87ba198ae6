package surcharge

import (
	"context"
	"time"
	_ "time/tzdata"

	"bitbucket.org/crgw/haulier-rates/internal/tools/caching"
	"github.com/shopspring/decimal"
)

const jodaKey = "surcharge:joda"

type Source string

const (
	SourceTable    Source = "table"
	SourceOverride Source = "override"
	SourceWebsite  Source = "website"
)

type Record struct {
	Pct       decimal.Decimal `json:"pct"`
	Source    Source          `json:"source"`
	UpdatedAt time.Time       `json:"updatedAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Store keeps the Joda override until the weekly reset on Wednesday midnight,
// UK time.
type Store struct {
	cache    *caching.Cacher
	location *time.Location
	now      func() time.Time
}

func NewStore(cache *caching.Cacher) *Store {
	location, err := time.LoadLocation("Europe/London")
	if err != nil {
		location = time.UTC
	}

	return &Store{
		cache:    cache,
		location: location,
		now:      time.Now,
	}
}

func (s *Store) Load(ctx context.Context) (Record, bool, error) {
	var record Record

	found, err := s.cache.Fetch(ctx, jodaKey, &record)
	if err != nil || !found {
		return Record{}, false, err
	}

	return record, true, nil
}

func (s *Store) Save(ctx context.Context, pct decimal.Decimal, source Source) (Record, error) {
	now := s.now().In(s.location)
	expiresAt := NextReset(now)

	record := Record{
		Pct:       pct,
		Source:    source,
		UpdatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.cache.Store(ctx, jodaKey, record, expiresAt.Sub(now)); err != nil {
		return Record{}, err
	}

	return record, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, jodaKey)
}

// NextReset returns the first Wednesday midnight strictly after t, in t's location.
func NextReset(t time.Time) time.Time {
	days := (int(time.Wednesday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	return midnight.AddDate(0, 0, days)
}
