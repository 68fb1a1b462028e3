package dtos

import (
	"github.com/google/uuid"

	"makanloka-backend/models"
)

// DiscoveryRequest is the sparse, optional-field query a consumer client
// sends. All defaulting happens in the filter compiler, never downstream.
type DiscoveryRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	RadiusKM  float64  `json:"radius" validate:"gte=0"`

	Keyword    string     `json:"keyword"`
	CategoryID *uuid.UUID `json:"category_id"`
	MerchantID *uuid.UUID `json:"merchant_id"`

	PriceRangeIDs []uint `json:"price_range_ids"`
	Pickup        *bool  `json:"pickup"`
	Open24h       *bool  `json:"is_24hrs"`

	IncludeClosed   bool    `json:"include_closed"`
	IncludeInactive bool    `json:"include_inactive"`
	MinRating       float64 `json:"min_rating" validate:"gte=0,lte=5"`

	NewThisWeek      bool `json:"new_this_week"`
	BudgetMeal       bool `json:"budget_meal"`
	FavoriteThisWeek bool `json:"favorite_this_week"`

	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir"`

	Page     int    `json:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" validate:"gte=0"`
	Lang     string `json:"lang"`
}

// StoreAggregate is one de-duplicated discovery result: the store row plus
// its nested collections and the computed display fields.
type StoreAggregate struct {
	ID           uuid.UUID           `json:"id"`
	MerchantID   uuid.UUID           `json:"merchant_id"`
	MerchantName string              `json:"merchant_name,omitempty"`
	Name         string              `json:"name"`
	Address      string              `json:"address"`
	City         string              `json:"city"`
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	Status       models.StoreStatus  `json:"status"`
	DeliveryType models.DeliveryType `json:"delivery_type"`
	AveragePrice float64             `json:"average_price"`
	Rating       float64             `json:"rating"`
	OrderCount   int64               `json:"order_count"`
	IsOpen24h    bool                `json:"is_open_24h"`

	DistanceInKM      float64                  `json:"distance_in_km"`
	OperationalStatus bool                     `json:"store_operational_status"`
	PriceSymbol       string                   `json:"price_symbol,omitempty"`
	PriceBucket       *models.PriceRangeBucket `json:"price_range,omitempty"`

	Addons     []AddonView    `json:"service_addons"`
	Hours      []HourView     `json:"operational_hours"`
	Categories []CategoryView `json:"categories"`
}

type AddonView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type HourView struct {
	ID        uuid.UUID   `json:"id"`
	DayOfWeek int         `json:"day_of_week"`
	IsOpen    bool        `json:"is_open"`
	IsOpen24h bool        `json:"is_open_24h"`
	GMTOffset int         `json:"gmt_offset"`
	Shifts    []ShiftView `json:"shifts"`
}

type ShiftView struct {
	OpenHour  string `json:"open_hour"`
	CloseHour string `json:"close_hour"`
}

type CategoryView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}

// DiscoveryResponse is the paginated envelope returned to clients.
type DiscoveryResponse struct {
	Total int64             `json:"total"`
	Limit int               `json:"limit"`
	Page  int               `json:"page"`
	Items []*StoreAggregate `json:"items"`
}
