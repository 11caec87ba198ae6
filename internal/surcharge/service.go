package surcharge

import (
	"context"

	"bitbucket.org/crgw/haulier-rates/internal/pricing"
	"bitbucket.org/crgw/haulier-rates/internal/ratetable"
	"github.com/shopspring/decimal"
)

type pageFetcher interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// Service resolves the effective Joda surcharge: a stored override until the
// weekly reset, the rate table value otherwise.
type Service struct {
	store   *Store
	fetcher pageFetcher
}

func NewService(store *Store, fetcher pageFetcher) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
	}
}

func (s *Service) Current(ctx context.Context, table *ratetable.Table) (Record, error) {
	record, found, err := s.store.Load(ctx)
	if err != nil {
		return Record{}, err
	}

	if found {
		return record, nil
	}

	return Record{
		Pct:    table.JodaSurcharge(),
		Source: SourceTable,
	}, nil
}

// Apply returns the table with the effective Joda surcharge in place.
func (s *Service) Apply(ctx context.Context, table *ratetable.Table) (*ratetable.Table, Record, error) {
	record, err := s.Current(ctx, table)
	if err != nil {
		return nil, Record{}, err
	}

	if record.Source == SourceTable {
		return table, record, nil
	}

	return table.WithJodaSurcharge(record.Pct), record, nil
}

func (s *Service) Save(ctx context.Context, pct decimal.Decimal) (Record, error) {
	if err := pricing.ValidateSurcharge(pct); err != nil {
		return Record{}, err
	}

	return s.store.Save(ctx, pct, SourceOverride)
}

func (s *Service) Refresh(ctx context.Context) (Record, error) {
	pct, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return Record{}, err
	}

	return s.store.Save(ctx, pct, SourceWebsite)
}

func (s *Service) Reset(ctx context.Context) error {
	return s.store.Clear(ctx)
}
