package discovery

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"makanloka-backend/dtos"
	"makanloka-backend/logger"
	"makanloka-backend/models"
)

type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByPrice    SortKey = "price"
	SortByOrders   SortKey = "orders"
)

const (
	DefaultRadiusKM = 25.0
	DefaultPageSize = 10
	DefaultLang     = "id"
	FallbackLang    = "en"
)

// SettingsReader resolves a named system setting to its raw string value.
type SettingsReader interface {
	Value(ctx context.Context, name string) (string, error)
}

// FavoritesProvider returns this week's curated store ids, best first.
type FavoritesProvider interface {
	TopStoreIDs(ctx context.Context) ([]uuid.UUID, error)
}

// FilterContext is the fully-resolved query plan: every default applied,
// every id validated, every setting fetched. Backends consume it as-is.
type FilterContext struct {
	OriginLat float64
	OriginLng float64
	RadiusKM  float64

	Keyword    string
	CategoryID *uuid.UUID
	MerchantID *uuid.UUID

	HasPriceFilter bool
	PriceLows      []float64
	PriceHighs     []float64

	DeliveryTypes []models.DeliveryType
	Open24h       *bool

	IncludeClosed   bool
	IncludeInactive bool
	MinRating       float64

	NewSince    *time.Time
	BudgetCap   *float64
	FavoriteIDs []uuid.UUID

	SortBy   SortKey
	SortDesc bool

	Page     int
	PageSize int
	Lang     string

	Now              time.Time
	RefOffsetMinutes int
}

// Compiler turns a raw DiscoveryRequest into a FilterContext. Collaborator
// failures degrade per field policy: favorites disable quietly, the budget
// cap is fatal, the radius setting falls back to the built-in default.
type Compiler struct {
	Settings         SettingsReader
	Favorites        FavoritesProvider
	Log              logger.Logger
	Clock            func() time.Time
	RefOffsetMinutes int
}

func NewCompiler(settings SettingsReader, favorites FavoritesProvider, log logger.Logger) *Compiler {
	return &Compiler{
		Settings:         settings,
		Favorites:        favorites,
		Log:              log,
		Clock:            time.Now,
		RefOffsetMinutes: DefaultPlatformOffsetMinutes,
	}
}

func (c *Compiler) Compile(ctx context.Context, req dtos.DiscoveryRequest, buckets []models.PriceRangeBucket) (*FilterContext, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, &ClientInputError{Field: "latitude/longitude", Reason: "origin coordinates are required"}
	}
	if *req.Latitude < -90 || *req.Latitude > 90 {
		return nil, &ClientInputError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if *req.Longitude < -180 || *req.Longitude > 180 {
		return nil, &ClientInputError{Field: "longitude", Reason: "must be between -180 and 180"}
	}

	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock().UTC()
	}

	fc := &FilterContext{
		OriginLat:        *req.Latitude,
		OriginLng:        *req.Longitude,
		Keyword:          strings.TrimSpace(req.Keyword),
		CategoryID:       req.CategoryID,
		MerchantID:       req.MerchantID,
		Open24h:          req.Open24h,
		IncludeClosed:    req.IncludeClosed,
		IncludeInactive:  req.IncludeInactive,
		Now:              now,
		RefOffsetMinutes: c.RefOffsetMinutes,
	}

	fc.RadiusKM = req.RadiusKM
	if fc.RadiusKM <= 0 {
		fc.RadiusKM = c.defaultRadius(ctx)
	}

	if req.MinRating > 0 {
		if req.MinRating > 5 {
			return nil, &ClientInputError{Field: "min_rating", Reason: "must be between 0 and 5"}
		}
		fc.MinRating = req.MinRating
	}

	if len(req.PriceRangeIDs) > 0 {
		lows, highs, err := BoundsForBuckets(buckets, req.PriceRangeIDs)
		if err != nil {
			return nil, err
		}
		fc.HasPriceFilter = true
		fc.PriceLows = lows
		fc.PriceHighs = highs
	}

	fc.DeliveryTypes = deliveryTypesFor(req.Pickup)

	if req.NewThisWeek {
		since := now.Add(-7 * 24 * time.Hour)
		fc.NewSince = &since
	}

	if req.BudgetMeal {
		maxPrice, err := c.budgetCap(ctx)
		if err != nil {
			return nil, err
		}
		fc.BudgetCap = &maxPrice
	}

	if req.FavoriteThisWeek {
		fc.FavoriteIDs = c.favoriteIDs(ctx)
	}

	switch strings.ToLower(req.SortBy) {
	case "price":
		fc.SortBy = SortByPrice
	case "orders", "order_count":
		fc.SortBy = SortByOrders
	case "", "distance":
		fc.SortBy = SortByDistance
	default:
		return nil, &ClientInputError{Field: "sort_by", Reason: "must be one of distance, price, orders"}
	}
	fc.SortDesc = strings.EqualFold(req.SortDir, "desc")

	fc.Page = req.Page
	if fc.Page < 1 {
		fc.Page = 1
	}
	fc.PageSize = req.PageSize
	if fc.PageSize < 1 {
		fc.PageSize = DefaultPageSize
	}

	fc.Lang = strings.ToLower(strings.TrimSpace(req.Lang))
	if fc.Lang == "" {
		fc.Lang = DefaultLang
	}

	return fc, nil
}

func (c *Compiler) defaultRadius(ctx context.Context) float64 {
	if c.Settings == nil {
		return DefaultRadiusKM
	}
	raw, err := c.Settings.Value(ctx, models.SettingDefaultSearchRadius)
	if err != nil {
		return DefaultRadiusKM
	}
	radius, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || radius <= 0 {
		if c.Log != nil {
			c.Log.Warn("ignoring malformed radius setting", map[string]interface{}{
				"setting": models.SettingDefaultSearchRadius,
				"value":   raw,
			})
		}
		return DefaultRadiusKM
	}
	return radius
}

func (c *Compiler) budgetCap(ctx context.Context) (float64, error) {
	if c.Settings == nil {
		return 0, &ConfigurationMissingError{Name: models.SettingBudgetMealMaxPrice}
	}
	raw, err := c.Settings.Value(ctx, models.SettingBudgetMealMaxPrice)
	if err != nil {
		return 0, &ConfigurationMissingError{Name: models.SettingBudgetMealMaxPrice}
	}
	maxPrice, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || maxPrice <= 0 {
		return 0, &ConfigurationMissingError{Name: models.SettingBudgetMealMaxPrice}
	}
	return maxPrice, nil
}

// favoriteIDs degrades to nil on any failure or an empty curation; the
// request then proceeds without the favorites treatment.
func (c *Compiler) favoriteIDs(ctx context.Context) []uuid.UUID {
	if c.Favorites == nil {
		return nil
	}
	ids, err := c.Favorites.TopStoreIDs(ctx)
	if err != nil {
		if c.Log != nil {
			c.Log.WithError(err).Warn("favorites lookup failed, continuing without", nil)
		}
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func deliveryTypesFor(pickup *bool) []models.DeliveryType {
	if pickup == nil {
		return []models.DeliveryType{models.DeliveryTypeDelivery, models.DeliveryTypePickup, models.DeliveryTypeDeliveryPickup}
	}
	if *pickup {
		return []models.DeliveryType{models.DeliveryTypePickup, models.DeliveryTypeDeliveryPickup}
	}
	// Explicitly declining pickup means delivery-only stores; hybrid stores
	// are pickup-capable and excluded.
	return []models.DeliveryType{models.DeliveryTypeDelivery}
}
