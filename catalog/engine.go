// Package catalog is the storefront catalog engine: product listings,
// product detail, recommendations, price history and the reference
// listings used to build filter menus.
//
// Engine methods never return errors. Data-access failures are handed to
// the configured Reporter and the call degrades to an empty result.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/filters"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/pricehistory"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/query"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/recommend"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog/reference"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

// ErrNotFound is returned by LoadProduct for unknown or unpublished ids.
var ErrNotFound = errors.New("catalog: product not found")

type Engine struct {
	db       *gorm.DB
	resolver *reference.Resolver
	series   *pricehistory.Series
	reporter Reporter
	tunables atomic.Pointer[Tunables]
}

type Option func(*Engine)

// WithReporter replaces the default LogReporter. A nil reporter discards.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

func WithTunables(t Tunables) Option {
	return func(e *Engine) { e.SetTunables(t) }
}

// WithClock sets the clock used for the price history window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.series.Now = now }
}

func New(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{
		db:       db,
		resolver: reference.NewResolver(db),
		series:   pricehistory.NewSeries(db),
		reporter: LogReporter{},
	}
	e.SetTunables(DefaultTunables())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tunables returns the current knobs.
func (e *Engine) Tunables() Tunables {
	return *e.tunables.Load()
}

// SetTunables swaps the knobs atomically; in-flight calls keep the values
// they started with.
func (e *Engine) SetTunables(t Tunables) {
	t = t.sanitized()
	e.tunables.Store(&t)
}

func (e *Engine) withTimeout(ctx context.Context, t Tunables) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.QueryTimeout)
}

// ═══════════════════════════════════════════════════════════
// Listings
// ═══════════════════════════════════════════════════════════

// ListProducts normalizes raw query parameters and returns one page of
// matching published products with the total match count.
func (e *Engine) ListProducts(ctx context.Context, raw map[string][]string) models.ProductListing {
	t := e.Tunables()
	fs := filters.Normalize(raw, t.DefaultPageSize)

	ctx, cancel := e.withTimeout(ctx, t)
	defer cancel()

	listing, err := e.Search(ctx, fs)
	if err != nil {
		e.report(ctx, "ListProducts", err)
		return models.EmptyListing(fs.Page, fs.Limit)
	}
	return listing
}

// Search runs an already normalized filter set and returns store errors
// instead of degrading.
func (e *Engine) Search(ctx context.Context, fs models.FilterSet) (models.ProductListing, error) {
	ids, err := e.resolver.Resolve(ctx, fs)
	if err != nil {
		return models.ProductListing{}, err
	}
	listing := query.NewListing(fs, ids)

	var (
		wg       sync.WaitGroup
		items    []models.ProductListItem
		total    int
		fetchErr error
		countErr error
	)

	// page and count are independent reads
	wg.Add(2)
	go func() {
		defer wg.Done()
		items, fetchErr = listing.Fetch(ctx, e.db)
	}()
	go func() {
		defer wg.Done()
		total, countErr = listing.CountMatches(ctx, e.db)
	}()
	wg.Wait()

	if err := errors.Join(fetchErr, countErr); err != nil {
		return models.ProductListing{}, err
	}
	return models.ProductListing{
		Products:   items,
		TotalCount: total,
		Page:       fs.Page,
		Limit:      fs.Limit,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Product detail
// ═══════════════════════════════════════════════════════════

// GetProduct returns the published product with its brand, category,
// gender, variants (with color and size) and ordered images, or nil.
func (e *Engine) GetProduct(ctx context.Context, id uuid.UUID) *models.Product {
	ctx, cancel := e.withTimeout(ctx, e.Tunables())
	defer cancel()

	product, err := e.LoadProduct(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			e.report(ctx, "GetProduct", err)
		}
		return nil
	}
	return product
}

// LoadProduct is GetProduct with errors. Unknown and unpublished ids yield
// ErrNotFound.
func (e *Engine) LoadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := e.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Preload("Gender").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Variants.Color").
		Preload("Variants.Size").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC").Order("sort_order ASC").Order("id ASC")
		}).
		Where("is_published = ?", true).
		Take(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading product %s: %w", id, err)
	}
	return &product, nil
}

// GetRecommendedProducts returns related published products, each with an image.
func (e *Engine) GetRecommendedProducts(ctx context.Context, id uuid.UUID) []models.RecommendedProduct {
	t := e.Tunables()
	ctx, cancel := e.withTimeout(ctx, t)
	defer cancel()

	items, err := recommend.NewRanker(e.db, t.RecommendFetchLimit, t.RecommendLimit).Recommend(ctx, id)
	if err != nil {
		e.report(ctx, "GetRecommendedProducts", err)
		return []models.RecommendedProduct{}
	}
	return items
}

// GetProductPriceHistory returns the product's price points of the last
// months months, oldest first. months <= 0 returns everything.
func (e *Engine) GetProductPriceHistory(ctx context.Context, id uuid.UUID, months int) []models.PriceHistoryPoint {
	ctx, cancel := e.withTimeout(ctx, e.Tunables())
	defer cancel()

	points, err := e.series.Points(ctx, id, months)
	if err != nil {
		e.report(ctx, "GetProductPriceHistory", err)
		return []models.PriceHistoryPoint{}
	}
	return points
}

// ═══════════════════════════════════════════════════════════
// Reference listings
// ═══════════════════════════════════════════════════════════

func (e *Engine) GetAllBrands(ctx context.Context) []models.BrandOption {
	ctx, cancel := e.withTimeout(ctx, e.Tunables())
	defer cancel()

	brands, err := e.resolver.ListBrands(ctx)
	if err != nil {
		e.report(ctx, "GetAllBrands", err)
		return []models.BrandOption{}
	}
	return brands
}

// GetAllCategories lists categories, narrowed to those with published
// products for genderSlugs when any are given. Priority categories come first.
func (e *Engine) GetAllCategories(ctx context.Context, genderSlugs ...string) []models.CategoryOption {
	t := e.Tunables()
	ctx, cancel := e.withTimeout(ctx, t)
	defer cancel()

	categories, err := e.resolver.ListCategories(ctx, filters.Slugs(genderSlugs), t.PriorityCategorySlugs)
	if err != nil {
		e.report(ctx, "GetAllCategories", err)
		return []models.CategoryOption{}
	}
	return categories
}
