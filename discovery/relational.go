package discovery

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"makanloka-backend/logger"
	"makanloka-backend/models"
	"makanloka-backend/utils"
)

const relationalCaps = CapGeoRadius | CapFreeText | Cap24hFlag | CapDeliveryType |
	CapCategory | CapMerchant | CapPriceBounds | CapNewThisWeek | CapBudgetCap |
	CapRatingFloor | CapOperationalStatus | CapFavoritesOrder | CapSortPrice | CapSortOrders

const flatSelect = `stores.id, stores.merchant_id, stores.name, stores.address, stores.city,
stores.latitude, stores.longitude, stores.status, stores.delivery_type,
stores.average_price, stores.is_open_24h, stores.is_store_open,
stores.rating, stores.order_count, stores.approved_at,
sa.id AS addon_id, sa.name AS addon_name,
oh.id AS hour_id, oh.day_of_week AS hour_day, oh.is_open AS hour_is_open,
oh.is_open_24h AS hour_is_24h, oh.gmt_offset AS hour_gmt_offset,
sc.id AS category_id, sc.image AS category_image,
sct.lang_code AS category_lang, sct.name AS category_name`

// RelationalStoreSearch is the authoritative search backend: a single flat
// join over stores and their collections, folded back into aggregates, with
// distance and operational status evaluated in-process so results stay
// correct on any SQL dialect.
type RelationalStoreSearch struct {
	db  *gorm.DB
	log logger.Logger
}

func NewRelationalStoreSearch(db *gorm.DB, log logger.Logger) *RelationalStoreSearch {
	return &RelationalStoreSearch{db: db, log: log}
}

func (s *RelationalStoreSearch) Capabilities() Capability {
	return relationalCaps
}

func (s *RelationalStoreSearch) Search(ctx context.Context, fc *FilterContext) (*SearchResult, error) {
	buckets, err := s.loadBuckets(ctx)
	if err != nil {
		return nil, &BackendUnavailableError{Op: "price bucket load", Err: err}
	}

	rows, err := s.queryRows(ctx, fc)
	if err != nil {
		return nil, &BackendUnavailableError{Op: "store query", Err: err}
	}

	folded := foldRows(rows, fc.Lang)
	if err := attachShifts(ctx, s.db, folded); err != nil {
		return nil, &BackendUnavailableError{Op: "shift load", Err: err}
	}

	if fc.Keyword != "" {
		if err := s.markKeywordMatches(ctx, fc.Keyword, folded); err != nil {
			return nil, &BackendUnavailableError{Op: "menu match", Err: err}
		}
	}

	kept := s.filterInProcess(fc, folded, buckets)
	s.log.Debug("relational search evaluated", map[string]interface{}{
		"rows":   len(rows),
		"stores": len(folded),
		"kept":   len(kept),
	})

	switch {
	case fc.Keyword != "":
		rankByKeyword(kept)
	case len(fc.FavoriteIDs) > 0:
		rankByFavorites(kept, fc.FavoriteIDs)
	default:
		rankBySort(kept, fc.SortBy, fc.SortDesc)
	}

	total := int64(len(kept))
	page := paginate(kept, fc.Page, fc.PageSize)

	result := &SearchResult{Total: total, Page: fc.Page, PageSize: fc.PageSize}
	for _, st := range page {
		result.Items = append(result.Items, st.Agg)
	}
	enrichMerchants(ctx, s.db, result.Items)
	return result, nil
}

func (s *RelationalStoreSearch) loadBuckets(ctx context.Context) ([]models.PriceRangeBucket, error) {
	var buckets []models.PriceRangeBucket
	err := s.db.WithContext(ctx).Order("sequence").Find(&buckets).Error
	return buckets, err
}

func (s *RelationalStoreSearch) queryRows(ctx context.Context, fc *FilterContext) ([]storeRow, error) {
	q := s.db.WithContext(ctx).Table("stores").
		Select(flatSelect).
		Joins("LEFT JOIN store_service_addons ssa ON ssa.store_id = stores.id").
		Joins("LEFT JOIN service_addons sa ON sa.id = ssa.service_addon_id").
		Joins("LEFT JOIN operational_hours oh ON oh.store_id = stores.id").
		Joins("LEFT JOIN store_category_assignments sca ON sca.store_id = stores.id").
		Joins("LEFT JOIN store_categories sc ON sc.id = sca.store_category_id AND sc.is_active = ? AND sc.deleted_at IS NULL", true).
		Joins("LEFT JOIN store_category_translations sct ON sct.store_category_id = sc.id").
		Where("stores.deleted_at IS NULL")

	q = ApplyClauses(q, BuildClauses(fc))

	if fc.CategoryID != nil {
		q = q.Where("stores.id IN (SELECT store_id FROM store_category_assignments WHERE store_category_id = ?)", *fc.CategoryID)
	}

	if fc.Keyword != "" {
		pattern := "%" + strings.ToLower(fc.Keyword) + "%"
		q = q.Where("(LOWER(stores.name) LIKE ? OR stores.id IN (SELECT store_id FROM menu_items WHERE LOWER(name) LIKE ? AND is_available = ? AND deleted_at IS NULL))",
			pattern, pattern, true)
	}

	// The precise great-circle check always runs in-process; on postgres the
	// same formula is pushed into the WHERE clause as a coarse pre-filter so
	// the join product stays small.
	if s.db.Dialector.Name() == "postgres" {
		q = q.Where(utils.DistanceSQL+" <= ?", fc.OriginLat, fc.OriginLng, fc.OriginLat, fc.RadiusKM)
	}

	var rows []storeRow
	if err := q.Order("stores.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// markKeywordMatches records, per folded store, whether the keyword hit the
// store name, its menu, or both. The SQL clause only guarantees at least one
// of the two matched.
func (s *RelationalStoreSearch) markKeywordMatches(ctx context.Context, keyword string, stores []*foldedStore) error {
	lowered := strings.ToLower(keyword)

	ids := make([]uuid.UUID, 0, len(stores))
	for _, st := range stores {
		st.NameMatch = strings.Contains(strings.ToLower(st.Agg.Name), lowered)
		ids = append(ids, st.Agg.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	var matched []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.MenuItem{}).
		Distinct("store_id").
		Where("store_id IN ? AND LOWER(name) LIKE ? AND is_available = ?", ids, "%"+lowered+"%", true).
		Pluck("store_id", &matched).Error
	if err != nil {
		return err
	}

	menuHit := make(map[uuid.UUID]struct{}, len(matched))
	for _, id := range matched {
		menuHit[id] = struct{}{}
	}
	for _, st := range stores {
		_, st.MenuMatch = menuHit[st.Agg.ID]
	}
	return nil
}

// filterInProcess applies the predicates SQL cannot be trusted with across
// dialects: exact distance, the operational-status evaluation, and the
// bucket-symbol enrichment.
func (s *RelationalStoreSearch) filterInProcess(fc *FilterContext, stores []*foldedStore, buckets []models.PriceRangeBucket) []*foldedStore {
	kept := make([]*foldedStore, 0, len(stores))
	for _, st := range stores {
		distance := utils.DistanceKM(fc.OriginLat, fc.OriginLng, st.Agg.Latitude, st.Agg.Longitude)
		if distance > fc.RadiusKM {
			continue
		}
		st.Agg.DistanceInKM = roundDistance(distance)

		open := IsOperationallyOpen(st.ManualOpen, st.StoreAlways24h, st.Week, fc.Now, fc.RefOffsetMinutes)
		st.Agg.OperationalStatus = open
		if !fc.IncludeClosed && !open {
			continue
		}

		if bucket := BucketForPrice(buckets, st.Agg.AveragePrice); bucket != nil {
			st.Agg.PriceBucket = bucket
			st.Agg.PriceSymbol = bucket.Symbol
		}

		kept = append(kept, st)
	}
	return kept
}
