package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	catalogapi "github.com/dhruvxsingh/zenocon-bot/internal/adapter/catalog"
	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Service caches the remote product catalog for a bounded time and resolves
// product ids through a chain of fallbacks, so a checkout never dies on a
// stale or deleted catalog entry.
type Service struct {
	api               catalogapi.API
	logger            logger.Logger
	ttl               time.Duration
	defaultPricePaise int64

	mu          sync.Mutex
	products    []*domain.Product
	byID        map[string]*domain.Product
	byRetailer  map[string]*domain.Product
	synthesized map[string]*domain.Product
	fetchedAt   time.Time
}

func NewService(api catalogapi.API, ttl time.Duration, defaultPricePaise int64, lgr logger.Logger) *Service {
	return &Service{
		api:               api,
		logger:            lgr,
		ttl:               ttl,
		defaultPricePaise: defaultPricePaise,
		byID:              make(map[string]*domain.Product),
		byRetailer:        make(map[string]*domain.Product),
		synthesized:       make(map[string]*domain.Product),
	}
}

var _ interfaces.CatalogService = (*Service)(nil)

// Products returns the cached catalog, refreshing it when the TTL has
// expired. A failed refresh keeps serving the stale copy.
func (s *Service) Products(ctx context.Context) []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked(ctx, false)
	return s.products
}

// ResolveAnyID maps any product id seen on the wire to a product. It tries
// the cache by platform id, then by retailer id, then forces a refresh and
// retries both, then falls back to a fuzzy name match, and as a last resort
// synthesizes a placeholder so the order can still proceed.
func (s *Service) ResolveAnyID(ctx context.Context, id string) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked(ctx, false)

	if p := s.lookupLocked(id); p != nil {
		return p
	}
	if p, ok := s.synthesized[id]; ok {
		return p
	}

	s.refreshLocked(ctx, true)
	if p := s.lookupLocked(id); p != nil {
		return p
	}

	if p := s.fuzzyLocked(id); p != nil {
		s.logger.Debug("product_fuzzy_match", "Resolved product id by fuzzy match", id, map[string]interface{}{
			"matched_id": p.ID,
			"name":       p.Name,
		})
		return p
	}

	p := domain.PlaceholderProduct(id, s.defaultPricePaise)
	s.synthesized[id] = p
	s.logger.Info("product_synthesized", "Synthesized placeholder for unknown product id", id, map[string]interface{}{
		"price_paise": p.PricePaise,
	})
	return p
}

// Categories returns the distinct non-empty categories, sorted.
func (s *Service) Categories(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked(ctx, false)

	seen := make(map[string]struct{})
	var categories []string
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

func (s *Service) ProductsByCategory(ctx context.Context, category string) []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked(ctx, false)

	var matched []*domain.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *Service) lookupLocked(id string) *domain.Product {
	if p, ok := s.byID[id]; ok {
		return p
	}
	if p, ok := s.byRetailer[id]; ok {
		return p
	}
	return nil
}

func (s *Service) fuzzyLocked(query string) *domain.Product {
	for _, p := range s.products {
		if p.MatchesQuery(query) {
			return p
		}
	}
	return nil
}

func (s *Service) refreshLocked(ctx context.Context, force bool) {
	if !force && !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.ttl {
		return
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		s.logger.Error("catalog_refresh_failed", "Catalog fetch failed, serving cached copy", "", map[string]interface{}{
			"cached_products": len(s.products),
		}, err)
		// Push the next attempt out a full TTL so a broken upstream is not
		// hammered on every message.
		s.fetchedAt = time.Now()
		return
	}

	byID := make(map[string]*domain.Product, len(products))
	byRetailer := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
		if p.RetailerID != "" {
			byRetailer[p.RetailerID] = p
		}
	}

	s.products = products
	s.byID = byID
	s.byRetailer = byRetailer
	s.fetchedAt = time.Now()
	s.logger.Info("catalog_refreshed", "Catalog cache refreshed", "", map[string]interface{}{
		"products": len(products),
		"forced":   force,
	})
}
