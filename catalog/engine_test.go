package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Modeva-Ecommerce/sneakverse-catalog/catalog"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/internal/testdb"
	"github.com/Modeva-Ecommerce/sneakverse-catalog/models"
)

type recorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *recorder) Report(_ context.Context, op string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func newEngine(t *testing.T) (*catalog.Engine, *gorm.DB, *testdb.Builder, *recorder) {
	t.Helper()
	db := testdb.Open(t)
	rec := &recorder{}
	return catalog.New(db, catalog.WithReporter(rec)), db, testdb.NewBuilder(t, db), rec
}

func itemIDs(items []models.ProductListItem) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestListProductsGenderNewest(t *testing.T) {
	t.Parallel()

	engine, _, b, rec := newEngine(t)
	men := b.Gender("Men", "men")
	women := b.Gender("Women", "women")

	var menProducts []models.Product
	for i := 0; i < 10; i++ {
		p := b.Product(fmt.Sprintf("Men %d", i), testdb.WithGender(men))
		b.Variant(p, 100)
		menProducts = append(menProducts, p)
	}
	for i := 0; i < 5; i++ {
		b.Product(fmt.Sprintf("Women %d", i), testdb.WithGender(women))
	}

	got := engine.ListProducts(context.Background(), url.Values{
		"gender": {"men"},
		"page":   {"1"},
		"limit":  {"4"},
		"sort":   {"newest"},
	})

	assert.Equal(t, 10, got.TotalCount)
	require.Len(t, got.Products, 4)
	assert.Equal(t, []uuid.UUID{
		menProducts[9].ID, menProducts[8].ID, menProducts[7].ID, menProducts[6].ID,
	}, itemIDs(got.Products))
	for i, item := range got.Products {
		require.NotNil(t, item.Subtitle)
		assert.Equal(t, "Men", *item.Subtitle)
		if i > 0 {
			assert.True(t, got.Products[i-1].CreatedAt.After(item.CreatedAt))
		}
	}
	assert.Equal(t, 3, got.TotalPages())
	assert.Empty(t, rec.Ops())
}

func TestListProductsEmptyStore(t *testing.T) {
	t.Parallel()

	engine, _, b, rec := newEngine(t)
	b.Product("Draft", testdb.Unpublished())

	got := engine.ListProducts(context.Background(), nil)

	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)
	assert.Equal(t, 0, got.TotalCount)
	assert.Equal(t, 1, got.Page)
	assert.Empty(t, rec.Ops())
}

func TestListProductsStoreFailure(t *testing.T) {
	t.Parallel()

	engine, db, b, rec := newEngine(t)
	b.Product("Anything")
	testdb.Close(t, db)

	got := engine.ListProducts(context.Background(), url.Values{"page": {"2"}})

	assert.Equal(t, models.EmptyListing(2, 12), got)
	assert.Equal(t, []string{"ListProducts"}, rec.Ops())

	// a failing resolver takes the same path
	got = engine.ListProducts(context.Background(), url.Values{"brand": {"nike"}})
	assert.Empty(t, got.Products)
	assert.Len(t, rec.Ops(), 2)
}

func TestListProductsPanickingReporter(t *testing.T) {
	t.Parallel()

	db := testdb.Open(t)
	testdb.Close(t, db)
	engine := catalog.New(db, catalog.WithReporter(catalog.ReporterFunc(
		func(context.Context, string, error) { panic("sink down") },
	)))

	var got models.ProductListing
	require.NotPanics(t, func() {
		got = engine.ListProducts(context.Background(), nil)
	})
	assert.Equal(t, models.EmptyListing(1, 12), got)
	assert.Empty(t, engine.GetAllBrands(context.Background()))
}

func TestListProductsPaginationCompleteness(t *testing.T) {
	t.Parallel()

	engine, db, b, _ := newEngine(t)
	want := map[uuid.UUID]bool{}
	for i := 0; i < 23; i++ {
		p := b.Product(fmt.Sprintf("Runner %02d", i))
		if i%3 != 0 {
			b.Variant(p, 100)
		}
		want[p.ID] = true
	}
	// identical timestamps and prices leave only the id tiebreak
	require.NoError(t, db.Model(&models.Product{}).Where("1 = 1").Update("created_at", testdb.Epoch).Error)

	for _, sort := range []string{"featured", "price_asc", "price_desc", "most_popular"} {
		seen := map[uuid.UUID]int{}
		first := engine.ListProducts(context.Background(), url.Values{"limit": {"5"}, "sort": {sort}})
		require.Equal(t, 23, first.TotalCount)

		for page := 1; page <= first.TotalPages(); page++ {
			got := engine.ListProducts(context.Background(), url.Values{
				"limit": {"5"},
				"page":  {fmt.Sprint(page)},
				"sort":  {sort},
			})
			assert.LessOrEqual(t, len(got.Products), 5)
			for _, item := range got.Products {
				seen[item.ID]++
			}
		}

		assert.Len(t, seen, len(want), sort)
		for id, n := range seen {
			assert.True(t, want[id], sort)
			assert.Equal(t, 1, n, sort)
		}
	}
}

func TestListProductsIdempotent(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	for i := 0; i < 8; i++ {
		p := b.Product(fmt.Sprintf("P%d", i))
		b.Variant(p, float64(50+i%3*10))
	}

	raw := url.Values{"sort": {"price_asc"}, "limit": {"6"}}
	first := engine.ListProducts(context.Background(), raw)
	second := engine.ListProducts(context.Background(), raw)
	assert.Equal(t, first, second)
}

func TestListProductsSearchNormalization(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	nb := b.Brand("New Balance", "new-balance")
	named := b.Product("New Balance 2002R")
	byBrand := b.Product("990v6", testdb.WithBrand(nb))
	described := b.Product("Trail Runner", testdb.WithDescription("Built on a new balance of cushioning"))
	b.Product("Air Max 90")

	for _, term := range []string{"new balance", "NEW BALANCE", "newbalance", "  NewBalance "} {
		got := engine.ListProducts(context.Background(), url.Values{"search": {term}})
		ids := itemIDs(got.Products)
		assert.Contains(t, ids, named.ID, term)
		assert.Contains(t, ids, byBrand.ID, term)
		assert.Equal(t, len(ids), got.TotalCount, term)
	}

	got := engine.ListProducts(context.Background(), url.Values{"q": {"new balance"}})
	assert.ElementsMatch(t, []uuid.UUID{named.ID, byBrand.ID, described.ID}, itemIDs(got.Products))

	got = engine.ListProducts(context.Background(), url.Values{"search": {"100%"}})
	assert.Empty(t, got.Products)
}

func TestListProductsSearchIgnoresStoredWhitespace(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	tabbed := b.Product("New\tBalance 2002R")
	nbsp := b.Product("Samba\u00a0OG")
	b.Product("Air Max 90")

	got := engine.ListProducts(context.Background(), url.Values{"search": {"newbalance"}})
	assert.Equal(t, []uuid.UUID{tabbed.ID}, itemIDs(got.Products))
	assert.Equal(t, 1, got.TotalCount)

	got = engine.ListProducts(context.Background(), url.Values{"search": {"SambaOG"}})
	assert.Equal(t, []uuid.UUID{nbsp.ID}, itemIDs(got.Products))
}

func TestListProductsPriceBucketAggregation(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	mixed := b.Product("Mixed")
	b.Variant(mixed, 90)
	b.Variant(mixed, 120)
	b.Variant(mixed, 140)
	cheap := b.Product("Cheap")
	b.Variant(cheap, 60)

	got := engine.ListProducts(context.Background(), url.Values{"price": {"100-150"}})
	require.Len(t, got.Products, 1)
	assert.Equal(t, 1, got.TotalCount)
	item := got.Products[0]
	assert.Equal(t, mixed.ID, item.ID)
	require.NotNil(t, item.MinPrice)
	require.NotNil(t, item.MaxPrice)
	assert.InDelta(t, 120.0, *item.MinPrice, 0.001)
	assert.InDelta(t, 140.0, *item.MaxPrice, 0.001)

	// without a variant-level filter the range spans every variant
	got = engine.ListProducts(context.Background(), nil)
	require.Len(t, got.Products, 2)
	for _, item := range got.Products {
		if item.ID == mixed.ID {
			assert.InDelta(t, 90.0, *item.MinPrice, 0.001)
			assert.InDelta(t, 140.0, *item.MaxPrice, 0.001)
		}
	}

	// explicit bounds OR buckets
	got = engine.ListProducts(context.Background(), url.Values{"price": {"100-150"}, "maxPrice": {"70"}})
	assert.Equal(t, 2, got.TotalCount)
}

func TestListProductsPriceSort(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	prices := [][]float64{{150}, {80, 200}, {}, {95.5}, {80}, {310, 40}}
	for i, set := range prices {
		p := b.Product(fmt.Sprintf("P%d", i))
		for _, price := range set {
			b.Variant(p, price)
		}
	}

	asc := engine.ListProducts(context.Background(), url.Values{"sort": {"price_asc"}})
	require.Len(t, asc.Products, len(prices))
	for i := 1; i < len(asc.Products); i++ {
		prev, cur := asc.Products[i-1], asc.Products[i]
		if cur.MinPrice == nil {
			continue
		}
		require.NotNil(t, prev.MinPrice, "null prices sort last")
		assert.LessOrEqual(t, *prev.MinPrice, *cur.MinPrice)
	}
	assert.Nil(t, asc.Products[len(prices)-1].MinPrice)

	desc := engine.ListProducts(context.Background(), url.Values{"sort": {"price_desc"}})
	require.Len(t, desc.Products, len(prices))
	for i := 1; i < len(desc.Products); i++ {
		prev, cur := desc.Products[i-1], desc.Products[i]
		if cur.MaxPrice == nil {
			continue
		}
		require.NotNil(t, prev.MaxPrice)
		assert.GreaterOrEqual(t, *prev.MaxPrice, *cur.MaxPrice)
	}
	assert.Nil(t, desc.Products[len(prices)-1].MaxPrice)

	for _, item := range asc.Products {
		if item.MinPrice != nil && item.MaxPrice != nil {
			assert.LessOrEqual(t, *item.MinPrice, *item.MaxPrice)
		}
	}
}

func TestListProductsMostPopular(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	quiet := b.Product("Quiet")
	loved := b.Product("Loved")
	liked := b.Product("Liked")
	b.Reviews(loved, 5)
	b.Reviews(liked, 2)

	got := engine.ListProducts(context.Background(), url.Values{"sort": {"most_popular"}})
	assert.Equal(t, []uuid.UUID{loved.ID, liked.ID, quiet.ID}, itemIDs(got.Products))
}

func TestListProductsVariantFacetsAndImages(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	black := b.Color("Black", "black")
	white := b.Color("White", "white")
	eu42 := b.Size("EU 42", "42", 4)
	eu43 := b.Size("EU 43", "43", 5)

	shoe := b.Product("Samba OG")
	blackVariant := b.Variant(shoe, 110, testdb.InColor(black), testdb.InSize(eu42))
	b.Variant(shoe, 100, testdb.InColor(white), testdb.InSize(eu43))
	b.Image(shoe, nil, "https://cdn.test/samba-generic-2.jpg", 2, false)
	b.Image(shoe, nil, "https://cdn.test/samba-generic.jpg", 1, true)
	b.Image(shoe, &blackVariant, "https://cdn.test/samba-black.jpg", 0, false)

	plain := b.Product("No Images")
	b.Variant(plain, 70, testdb.InColor(black), testdb.InSize(eu43))

	got := engine.ListProducts(context.Background(), nil)
	require.Len(t, got.Products, 2)
	for _, item := range got.Products {
		if item.ID == shoe.ID {
			require.NotNil(t, item.ImageURL)
			assert.Equal(t, "https://cdn.test/samba-generic.jpg", *item.ImageURL)
		} else {
			assert.Nil(t, item.ImageURL)
		}
	}

	got = engine.ListProducts(context.Background(), url.Values{"color": {"black"}, "sort": {"price_asc"}})
	require.Len(t, got.Products, 2)
	assert.Equal(t, plain.ID, got.Products[0].ID)
	assert.Nil(t, got.Products[0].ImageURL)
	require.NotNil(t, got.Products[1].ImageURL)
	assert.Equal(t, "https://cdn.test/samba-black.jpg", *got.Products[1].ImageURL)
	assert.InDelta(t, 110.0, *got.Products[1].MinPrice, 0.001)

	// white has no variant image, so the generic one is used
	got = engine.ListProducts(context.Background(), url.Values{"color": {"white"}})
	require.Len(t, got.Products, 1)
	assert.Equal(t, "https://cdn.test/samba-generic.jpg", *got.Products[0].ImageURL)

	// size and color must hold on the same variant
	got = engine.ListProducts(context.Background(), url.Values{"color": {"black"}, "size": {"43"}})
	assert.Equal(t, []uuid.UUID{plain.ID}, itemIDs(got.Products))

	got = engine.ListProducts(context.Background(), url.Values{"color": {"black,white"}, "size": {"43"}})
	assert.ElementsMatch(t, []uuid.UUID{plain.ID, shoe.ID}, itemIDs(got.Products))
}

func TestListProductsUnresolvedSlugsMatchNothing(t *testing.T) {
	t.Parallel()

	engine, _, b, rec := newEngine(t)
	nike := b.Brand("Nike", "nike")
	b.Product("Pegasus", testdb.WithBrand(nike))
	b.Product("Gazelle")

	got := engine.ListProducts(context.Background(), url.Values{"brand": {"nikee"}})
	assert.Empty(t, got.Products)
	assert.Equal(t, 0, got.TotalCount)

	got = engine.ListProducts(context.Background(), url.Values{"brand": {"nikee,nike"}})
	assert.Equal(t, 1, got.TotalCount)

	got = engine.ListProducts(context.Background(), url.Values{"size": {"99"}})
	assert.Empty(t, got.Products)

	assert.Empty(t, rec.Ops())
}

func TestListProductsBrandProjection(t *testing.T) {
	t.Parallel()

	engine, db, b, _ := newEngine(t)
	nike := b.Brand("Nike", "nike")
	logo := "https://cdn.test/nike.svg"
	require.NoError(t, db.Model(&models.Brand{}).Where("id = ?", nike.ID).Update("logo_url", logo).Error)
	b.Product("Pegasus", testdb.WithBrand(nike))

	got := engine.ListProducts(context.Background(), nil)
	require.Len(t, got.Products, 1)
	require.NotNil(t, got.Products[0].BrandName)
	assert.Equal(t, "Nike", *got.Products[0].BrandName)
	require.NotNil(t, got.Products[0].BrandLogo)
	assert.Equal(t, logo, *got.Products[0].BrandLogo)
	assert.Nil(t, got.Products[0].Subtitle)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	engine, _, b, rec := newEngine(t)
	nike := b.Brand("Nike", "nike")
	running := b.Category("Running", "running")
	men := b.Gender("Men", "men")
	black := b.Color("Black", "black")
	eu42 := b.Size("EU 42", "42", 4)

	p := b.Product("Pegasus 41", testdb.WithBrand(nike), testdb.WithCategory(running), testdb.WithGender(men))
	v1 := b.Variant(p, 130, testdb.InColor(black), testdb.InSize(eu42))
	b.Variant(p, 135)
	b.Image(p, nil, "https://cdn.test/2.jpg", 2, false)
	primary := b.Image(p, nil, "https://cdn.test/primary.jpg", 5, true)
	b.Image(p, &v1, "https://cdn.test/1.jpg", 1, false)
	draft := b.Product("Draft", testdb.Unpublished())

	got := engine.GetProduct(context.Background(), p.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Pegasus 41", got.Name)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Nike", got.Brand.Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, "running", got.Category.Slug)
	require.NotNil(t, got.Gender)
	require.Len(t, got.Variants, 2)
	require.NotNil(t, got.Variants[0].Color)
	assert.Equal(t, "Black", got.Variants[0].Color.Name)
	require.NotNil(t, got.Variants[0].Size)
	assert.Nil(t, got.Variants[1].Color)
	require.Len(t, got.Images, 3)
	assert.Equal(t, primary.ID, got.Images[0].ID)
	assert.Equal(t, "https://cdn.test/1.jpg", got.Images[1].URL)

	assert.Nil(t, engine.GetProduct(context.Background(), draft.ID))
	assert.Nil(t, engine.GetProduct(context.Background(), uuid.New()))
	assert.Empty(t, rec.Ops())

	_, err := engine.LoadProduct(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestDegradedReadPaths(t *testing.T) {
	t.Parallel()

	engine, db, _, rec := newEngine(t)
	testdb.Close(t, db)
	ctx := context.Background()

	assert.Nil(t, engine.GetProduct(ctx, uuid.New()))

	recs := engine.GetRecommendedProducts(ctx, uuid.New())
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	points := engine.GetProductPriceHistory(ctx, uuid.New(), 6)
	assert.NotNil(t, points)
	assert.Empty(t, points)

	brands := engine.GetAllBrands(ctx)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)

	categories := engine.GetAllCategories(ctx, "men")
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	assert.Equal(t, []string{
		"GetProduct",
		"GetRecommendedProducts",
		"GetProductPriceHistory",
		"GetAllBrands",
		"GetAllCategories",
	}, rec.Ops())
}

func TestRecommendationsThroughEngine(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	running := b.Category("Running", "running")
	source := b.Product("Source", testdb.WithCategory(running))
	for i := 0; i < 9; i++ {
		p := b.Product(fmt.Sprintf("P%d", i), testdb.WithCategory(running))
		b.Image(p, nil, "https://cdn.test/p.jpg", 0, true)
	}

	got := engine.GetRecommendedProducts(context.Background(), source.ID)
	assert.Len(t, got, 6)

	engine.SetTunables(catalog.Tunables{RecommendLimit: 4, RecommendFetchLimit: 5})
	got = engine.GetRecommendedProducts(context.Background(), source.ID)
	assert.Len(t, got, 4)
	for _, item := range got {
		assert.NotEqual(t, source.ID, item.ID)
		assert.NotEmpty(t, item.ImageURL)
	}
}

func TestPriceHistoryThroughEngine(t *testing.T) {
	t.Parallel()

	db := testdb.Open(t)
	b := testdb.NewBuilder(t, db)
	now := time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC)
	engine := catalog.New(db, catalog.WithClock(func() time.Time { return now }))

	p := b.Product("Kayano")
	b.PricePoint(p, now.AddDate(-1, 0, 0), 160, nil)
	b.PricePoint(p, now.AddDate(0, 0, -10), 150, nil)

	assert.Len(t, engine.GetProductPriceHistory(context.Background(), p.ID, 6), 1)
	assert.Len(t, engine.GetProductPriceHistory(context.Background(), p.ID, 0), 2)
}

func TestReferenceListsThroughEngine(t *testing.T) {
	t.Parallel()

	engine, _, b, _ := newEngine(t)
	men := b.Gender("Men", "men")
	b.Brand("Puma", "puma")
	b.Brand("Asics", "asics")
	sneakers := b.Category("Sneakers", "sneakers")
	boots := b.Category("Boots", "boots")
	b.Category("Sandals", "sandals")
	b.Product("Air Force 1", testdb.WithGender(men), testdb.WithCategory(sneakers))
	b.Product("Chelsea", testdb.WithGender(men), testdb.WithCategory(boots))

	brands := engine.GetAllBrands(context.Background())
	require.Len(t, brands, 2)
	assert.Equal(t, "asics", brands[0].Slug)

	all := engine.GetAllCategories(context.Background())
	require.Len(t, all, 3)
	assert.Equal(t, "sneakers", all[0].Slug)

	forMen := engine.GetAllCategories(context.Background(), " MEN ")
	require.Len(t, forMen, 2)
	assert.Equal(t, "sneakers", forMen[0].Slug)
	assert.Equal(t, "boots", forMen[1].Slug)

	engine.SetTunables(catalog.Tunables{PriorityCategorySlugs: []string{"boots"}})
	forMen = engine.GetAllCategories(context.Background(), "men")
	assert.Equal(t, "boots", forMen[0].Slug)
}

func TestTunablesAreSanitized(t *testing.T) {
	t.Parallel()

	engine := catalog.New(nil, catalog.WithTunables(catalog.Tunables{
		DefaultPageSize:       500,
		RecommendLimit:        10,
		PriorityCategorySlugs: []string{"Running", "running", " Trail "},
	}))

	got := engine.Tunables()
	assert.Equal(t, 60, got.DefaultPageSize)
	assert.Equal(t, 10, got.RecommendLimit)
	assert.Equal(t, 10, got.RecommendFetchLimit)
	assert.Equal(t, []string{"running", "trail"}, got.PriorityCategorySlugs)
	assert.Equal(t, catalog.DefaultTunables().QueryTimeout, got.QueryTimeout)
}
