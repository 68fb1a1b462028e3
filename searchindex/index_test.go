package searchindex

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makanloka-backend/discovery"
	"makanloka-backend/logger"
	"makanloka-backend/models"
)

// stubES runs an httptest server that answers every search with the given
// status and body, capturing the last request body for assertions.
func stubES(t *testing.T, status int, body string) (*elasticsearch.Client, *string) {
	t.Helper()
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		captured = string(raw)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client, &captured
}

func indexFC() *discovery.FilterContext {
	return &discovery.FilterContext{
		OriginLat: -6.2,
		OriginLng: 106.8,
		RadiusKM:  25,
		DeliveryTypes: []models.DeliveryType{
			models.DeliveryTypeDelivery,
			models.DeliveryTypePickup,
			models.DeliveryTypeDeliveryPickup,
		},
		SortBy:           discovery.SortByDistance,
		Page:             1,
		PageSize:         10,
		Lang:             "id",
		Now:              time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC),
		RefOffsetMinutes: 0,
	}
}

const sampleHits = `{
	"hits": {
		"total": {"value": 2},
		"hits": [
			{"_source": {
				"id": "11111111-1111-1111-1111-111111111111",
				"merchant_id": "22222222-2222-2222-2222-222222222222",
				"merchant_name": "Makan Group",
				"name": "Bakso Podomoro",
				"city": "Jakarta",
				"location": {"lat": -6.2, "lon": 106.8},
				"status": "active",
				"delivery_type": "delivery_pickup",
				"average_price": 30000,
				"rating": 4.5,
				"order_count": 120,
				"is_open_24h": false,
				"price_symbol": "$$",
				"categories": [{"id": "33333333-3333-3333-3333-333333333333", "name": "Mi & Bakso"}]
			}},
			{"_source": {
				"id": "44444444-4444-4444-4444-444444444444",
				"merchant_id": "22222222-2222-2222-2222-222222222222",
				"name": "Warung Sedap",
				"location": {"lat": -6.21, "lon": 106.8},
				"status": "active",
				"is_open_24h": true
			}}
		]
	}
}`

func TestIndexedSearchParsesHits(t *testing.T) {
	client, _ := stubES(t, http.StatusOK, sampleHits)
	s := NewIndexedStoreSearch(client, "stores", logger.NewTestLogger(t))

	result, err := s.Search(context.Background(), indexFC())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Items, 2)

	first := result.Items[0]
	assert.Equal(t, "Bakso Podomoro", first.Name)
	assert.Equal(t, "Makan Group", first.MerchantName)
	assert.Equal(t, "$$", first.PriceSymbol)
	assert.Equal(t, models.StoreStatusActive, first.Status)
	assert.InDelta(t, 0.0, first.DistanceInKM, 0.01)
	require.Len(t, first.Categories, 1)
	assert.Equal(t, "Mi & Bakso", first.Categories[0].Name)

	second := result.Items[1]
	assert.True(t, second.IsOpen24h)
	assert.InDelta(t, 1.11, second.DistanceInKM, 0.05)
}

func TestIndexedSearchFailsSoft(t *testing.T) {
	client, _ := stubES(t, http.StatusInternalServerError, `{"error": "boom"}`)
	s := NewIndexedStoreSearch(client, "stores", logger.NewTestLogger(t))

	result, err := s.Search(context.Background(), indexFC())
	require.NoError(t, err, "index failures must degrade, not error")
	assert.Equal(t, int64(0), result.Total)
	assert.Empty(t, result.Items)
}

func TestIndexedSearchQueryShape(t *testing.T) {
	client, captured := stubES(t, http.StatusOK, `{"hits": {"total": {"value": 0}, "hits": []}}`)
	s := NewIndexedStoreSearch(client, "stores", logger.NewTestLogger(t))

	open24h := true
	fc := indexFC()
	fc.Keyword = "bakso"
	fc.Open24h = &open24h

	_, err := s.Search(context.Background(), fc)
	require.NoError(t, err)

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(*captured), &query))

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "bakso", multiMatch["query"])

	filters := boolQuery["filter"].([]interface{})
	var sawGeo, sawStatus, saw24h bool
	for _, f := range filters {
		clause := f.(map[string]interface{})
		if _, ok := clause["geo_distance"]; ok {
			sawGeo = true
		}
		if term, ok := clause["term"].(map[string]interface{}); ok {
			if _, ok := term["status"]; ok {
				sawStatus = true
			}
			if _, ok := term["is_open_24h"]; ok {
				saw24h = true
			}
		}
	}
	assert.True(t, sawGeo, "expected geo_distance filter")
	assert.True(t, sawStatus, "expected active status filter")
	assert.True(t, saw24h, "expected is_open_24h filter")

	// Keyword searches rank by relevance, not explicit sort.
	_, hasSort := query["sort"]
	assert.False(t, hasSort)
}

func TestIndexedSearchSortWithoutKeyword(t *testing.T) {
	client, captured := stubES(t, http.StatusOK, `{"hits": {"total": {"value": 0}, "hits": []}}`)
	s := NewIndexedStoreSearch(client, "stores", logger.NewTestLogger(t))

	fc := indexFC()
	fc.SortBy = discovery.SortByPrice
	fc.SortDesc = true

	_, err := s.Search(context.Background(), fc)
	require.NoError(t, err)

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(*captured), &query))

	sorts := query["sort"].([]interface{})
	require.Len(t, sorts, 1)
	price := sorts[0].(map[string]interface{})["average_price"].(map[string]interface{})
	assert.Equal(t, "desc", price["order"])
}

func TestIndexedCapabilitiesSubset(t *testing.T) {
	client, _ := stubES(t, http.StatusOK, `{}`)
	s := NewIndexedStoreSearch(client, "", logger.NewTestLogger(t))

	caps := s.Capabilities()
	assert.NotZero(t, caps&discovery.CapGeoRadius)
	assert.NotZero(t, caps&discovery.CapFreeText)
	assert.NotZero(t, caps&discovery.Cap24hFlag)
	assert.Zero(t, caps&discovery.CapPriceBounds)
	assert.Zero(t, caps&discovery.CapFavoritesOrder)
	assert.Zero(t, caps&discovery.CapBudgetCap)
}
