package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Service is what the browsing surfaces (home, categories, search, product page)
// talk to.
type Service struct {
	repo     Repository
	recent   *RecentSearches
	trending []string
	log      zerolog.Logger
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l.With().Str("component", "catalog").Logger() }
}

func WithRecentSearches(r *RecentSearches) Option {
	return func(s *Service) { s.recent = r }
}

func WithTrending(t []string) Option {
	return func(s *Service) { s.trending = append([]string(nil), t...) }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		recent: NewRecentSearches(DefaultRecentSearches),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open creates the schema and, when seed is not nil, loads the seed rows into an
// empty catalog.
func Open(ctx context.Context, repo Repository, seed *Seed) error {
	if err := repo.Init(ctx); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	if seed == nil {
		return nil
	}
	// Seed si está vacío
	n, err := repo.Count(ctx, Query{})
	if err != nil {
		return fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := repo.Seed(ctx, seed); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

// Search lists products matching q. Non-blank query text is remembered in the
// recent searches.
func (s *Service) Search(ctx context.Context, q Query) (Page, error) {
	q = q.Normalize()
	if strings.TrimSpace(q.Text) != "" {
		s.recent.Add(q.Text)
	}

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("count: %w", err)
	}
	items, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("list: %w", err)
	}
	s.log.Debug().
		Str("q", q.Text).
		Str("category", q.Category).
		Str("sort", string(q.Sort)).
		Int64("total", total).
		Msg("search")
	return newPage(q, items, total), nil
}

func (s *Service) Product(ctx context.Context, id string) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Recent() []string { return s.recent.List() }

func (s *Service) ClearRecent() { s.recent.Clear() }

func (s *Service) Trending() []string { return append([]string(nil), s.trending...) }
