package searchindex

import (
	"github.com/google/uuid"

	"makanloka-backend/dtos"
	"makanloka-backend/models"
)

// DefaultIndex is the denormalized store index maintained by the indexing
// pipeline. This backend only reads it.
const DefaultIndex = "stores"

// StoreDocument mirrors the indexed store shape. Collections are flattened
// at index time; no joins happen at query time.
type StoreDocument struct {
	ID           string        `json:"id"`
	MerchantID   string        `json:"merchant_id"`
	MerchantName string        `json:"merchant_name"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	Location     GeoPoint      `json:"location"`
	Status       string        `json:"status"`
	DeliveryType string        `json:"delivery_type"`
	AveragePrice float64       `json:"average_price"`
	Rating       float64       `json:"rating"`
	OrderCount   int64         `json:"order_count"`
	IsOpen24h    bool          `json:"is_open_24h"`
	PriceSymbol  string        `json:"price_symbol"`
	MenuItems    []string      `json:"menu_items"`
	Categories   []CategoryDoc `json:"categories"`
	Addons       []AddonDoc    `json:"service_addons"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type CategoryDoc struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type AddonDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// toAggregate converts an indexed document to the shared result shape. The
// index carries no schedule, so the operational flag is the coarse 24h hint
// only; callers choosing this path accept that.
func (d *StoreDocument) toAggregate(distanceKM float64) *dtos.StoreAggregate {
	id, _ := uuid.Parse(d.ID)
	merchantID, _ := uuid.Parse(d.MerchantID)

	agg := &dtos.StoreAggregate{
		ID:                id,
		MerchantID:        merchantID,
		MerchantName:      d.MerchantName,
		Name:              d.Name,
		Address:           d.Address,
		City:              d.City,
		Latitude:          d.Location.Lat,
		Longitude:         d.Location.Lon,
		Status:            models.StoreStatus(d.Status),
		DeliveryType:      models.DeliveryType(d.DeliveryType),
		AveragePrice:      d.AveragePrice,
		Rating:            d.Rating,
		OrderCount:        d.OrderCount,
		IsOpen24h:         d.IsOpen24h,
		PriceSymbol:       d.PriceSymbol,
		DistanceInKM:      distanceKM,
		OperationalStatus: d.IsOpen24h,
		Addons:            []dtos.AddonView{},
		Hours:             []dtos.HourView{},
		Categories:        []dtos.CategoryView{},
	}
	for _, c := range d.Categories {
		cid, err := uuid.Parse(c.ID)
		if err != nil {
			continue
		}
		agg.Categories = append(agg.Categories, dtos.CategoryView{ID: cid, Name: c.Name, Image: c.Image})
	}
	for _, a := range d.Addons {
		aid, err := uuid.Parse(a.ID)
		if err != nil {
			continue
		}
		agg.Addons = append(agg.Addons, dtos.AddonView{ID: aid, Name: a.Name})
	}
	return agg
}
