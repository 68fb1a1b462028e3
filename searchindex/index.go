package searchindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"makanloka-backend/discovery"
	"makanloka-backend/logger"
	"makanloka-backend/models"
	"makanloka-backend/utils"
)

const indexedCaps = discovery.CapGeoRadius | discovery.CapFreeText |
	discovery.Cap24hFlag | discovery.CapSortPrice

// IndexedStoreSearch serves low-latency browse queries from the
// denormalized store index. It is deliberately fail-soft: any index
// failure degrades to an empty page instead of an error, because the
// relational backend remains the source of truth.
type IndexedStoreSearch struct {
	client *elasticsearch.Client
	index  string
	log    logger.Logger
}

func NewIndexedStoreSearch(client *elasticsearch.Client, index string, log logger.Logger) *IndexedStoreSearch {
	if index == "" {
		index = DefaultIndex
	}
	return &IndexedStoreSearch{client: client, index: index, log: log}
}

func (s *IndexedStoreSearch) Capabilities() discovery.Capability {
	return indexedCaps
}

func (s *IndexedStoreSearch) Search(ctx context.Context, fc *discovery.FilterContext) (*discovery.SearchResult, error) {
	empty := &discovery.SearchResult{Page: fc.Page, PageSize: fc.PageSize}

	body, err := json.Marshal(buildQuery(fc))
	if err != nil {
		s.warn("index query marshal failed", err)
		return empty, nil
	}

	from := (fc.Page - 1) * fc.PageSize
	size := fc.PageSize
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		s.warn("index search failed", err)
		return empty, nil
	}
	defer res.Body.Close()

	if res.IsError() {
		s.warn("index search returned error status", fmt.Errorf("status %s", res.Status()))
		return empty, nil
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		s.warn("index response decode failed", err)
		return empty, nil
	}

	result := &discovery.SearchResult{
		Total:    parsed.Hits.Total.Value,
		Page:     fc.Page,
		PageSize: fc.PageSize,
	}
	for _, hit := range parsed.Hits.Hits {
		distance := utils.DistanceKM(fc.OriginLat, fc.OriginLng, hit.Source.Location.Lat, hit.Source.Location.Lon)
		result.Items = append(result.Items, hit.Source.toAggregate(math.Round(distance*100)/100))
	}
	return result, nil
}

func (s *IndexedStoreSearch) warn(msg string, err error) {
	if s.log != nil {
		s.log.WithError(err).Warn(msg, map[string]interface{}{"index": s.index})
	}
}

// buildQuery translates the filter context into an index query. Only the
// capability subset this backend declares is expressed here; the handler
// rejects anything more demanding before reaching this point.
func buildQuery(fc *discovery.FilterContext) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": string(models.StoreStatusActive)},
		},
		map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%.3fkm", fc.RadiusKM),
				"location": map[string]interface{}{"lat": fc.OriginLat, "lon": fc.OriginLng},
			},
		},
	}

	if fc.Keyword != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  fc.Keyword,
				"fields": []string{"name^3", "menu_items^2", "merchant_name", "categories.name"},
				"type":   "best_fields",
			},
		})
	}
	if fc.Open24h != nil {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"is_open_24h": *fc.Open24h},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}

	if fc.Keyword == "" {
		query["sort"] = buildSort(fc)
	}
	return query
}

func buildSort(fc *discovery.FilterContext) []interface{} {
	order := "asc"
	if fc.SortDesc {
		order = "desc"
	}
	if fc.SortBy == discovery.SortByPrice {
		return []interface{}{
			map[string]interface{}{"average_price": map[string]interface{}{"order": order}},
		}
	}
	return []interface{}{
		map[string]interface{}{
			"_geo_distance": map[string]interface{}{
				"location": map[string]interface{}{"lat": fc.OriginLat, "lon": fc.OriginLng},
				"order":    order,
				"unit":     "km",
			},
		},
	}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source StoreDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
