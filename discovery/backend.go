package discovery

import (
	"context"

	"makanloka-backend/dtos"
)

// Capability flags what a search backend can evaluate. A request whose
// explicit filters exceed the chosen backend's set is rejected up front
// rather than silently returning wrong results.
type Capability uint32

const (
	CapGeoRadius Capability = 1 << iota
	CapFreeText
	Cap24hFlag
	CapDeliveryType
	CapCategory
	CapMerchant
	CapPriceBounds
	CapNewThisWeek
	CapBudgetCap
	CapRatingFloor
	CapOperationalStatus
	CapFavoritesOrder
	CapSortPrice
	CapSortOrders
)

var capabilityNames = map[Capability]string{
	CapGeoRadius:         "geo_radius",
	CapFreeText:          "keyword",
	Cap24hFlag:           "is_24hrs",
	CapDeliveryType:      "pickup",
	CapCategory:          "category_id",
	CapMerchant:          "merchant_id",
	CapPriceBounds:       "price_range_ids",
	CapNewThisWeek:       "new_this_week",
	CapBudgetCap:         "budget_meal",
	CapRatingFloor:       "min_rating",
	CapOperationalStatus: "operational_status",
	CapFavoritesOrder:    "favorite_this_week",
	CapSortPrice:         "sort_by=price",
	CapSortOrders:        "sort_by=orders",
}

// SearchResult is a backend's page of assembled stores plus the pre-paging
// total.
type SearchResult struct {
	Items    []*dtos.StoreAggregate
	Total    int64
	Page     int
	PageSize int
}

// StoreSearcher is the pluggable search backend: the relational engine or
// the secondary index.
type StoreSearcher interface {
	Capabilities() Capability
	Search(ctx context.Context, fc *FilterContext) (*SearchResult, error)
}

// RequiredCapabilities derives the capability set a compiled filter context
// demands. Only explicitly requested filters count; the default operational
// predicate is a documented gap on backends that cannot evaluate it, not a
// hard requirement.
func RequiredCapabilities(fc *FilterContext) Capability {
	caps := CapGeoRadius
	if fc.Keyword != "" {
		caps |= CapFreeText
	}
	if fc.Open24h != nil {
		caps |= Cap24hFlag
	}
	if len(fc.DeliveryTypes) > 0 && len(fc.DeliveryTypes) < 3 {
		caps |= CapDeliveryType
	}
	if fc.CategoryID != nil {
		caps |= CapCategory
	}
	if fc.MerchantID != nil {
		caps |= CapMerchant
	}
	if fc.HasPriceFilter {
		caps |= CapPriceBounds
	}
	if fc.NewSince != nil {
		caps |= CapNewThisWeek
	}
	if fc.BudgetCap != nil {
		caps |= CapBudgetCap
	}
	if fc.MinRating > 0 {
		caps |= CapRatingFloor
	}
	if len(fc.FavoriteIDs) > 0 {
		caps |= CapFavoritesOrder
	}
	switch fc.SortBy {
	case SortByPrice:
		caps |= CapSortPrice
	case SortByOrders:
		caps |= CapSortOrders
	}
	return caps
}

// MissingCapabilities names the requested filters the given backend cannot
// serve, in declaration order.
func MissingCapabilities(fc *FilterContext, supported Capability) []string {
	required := RequiredCapabilities(fc)
	var missing []string
	for bit := Capability(1); bit <= CapSortOrders; bit <<= 1 {
		if required&bit != 0 && supported&bit == 0 {
			missing = append(missing, capabilityNames[bit])
		}
	}
	return missing
}
