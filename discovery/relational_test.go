package discovery

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"makanloka-backend/logger"
	"makanloka-backend/models"
)

func newSearcher(t *testing.T) *RelationalStoreSearch {
	t.Helper()
	return NewRelationalStoreSearch(freshDB(), logger.NewTestLogger(t))
}

// One store with several addons, schedule days and categories must come back
// as exactly one result with de-duplicated collections, and count as one.
func TestSearchDeduplicatesJoinProduct(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Podomoro Group")
	store := seedStore(t, testDB, merchant.ID, "Bakso Podomoro", -6.2, 106.8)
	seedOpenWeek(t, testDB, store.ID, "09:00", "21:00")

	wifi := seedAddon(t, testDB, "wifi")
	parking := seedAddon(t, testDB, "parking")
	assignAddon(t, testDB, store.ID, wifi.ID)
	assignAddon(t, testDB, store.ID, parking.ID)

	noodles := seedCategory(t, testDB, map[string]string{"id": "Mi & Bakso", "en": "Noodles"})
	street := seedCategory(t, testDB, map[string]string{"id": "Jajanan", "en": "Street Food"})
	assignCategory(t, testDB, store.ID, noodles.ID)
	assignCategory(t, testDB, store.ID, street.ID)

	result, err := s.Search(context.Background(), baseFC())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}

	item := result.Items[0]
	if len(item.Addons) != 2 {
		t.Errorf("expected 2 addons, got %d", len(item.Addons))
	}
	if len(item.Hours) != 7 {
		t.Errorf("expected 7 schedule days, got %d", len(item.Hours))
	}
	if len(item.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(item.Categories))
	}
	for _, cat := range item.Categories {
		if cat.Name != "Mi & Bakso" && cat.Name != "Jajanan" {
			t.Errorf("expected localized id names, got %q", cat.Name)
		}
	}
	if item.MerchantName != "Podomoro Group" {
		t.Errorf("expected merchant enrichment, got %q", item.MerchantName)
	}
	if !item.OperationalStatus {
		t.Error("expected store to be operationally open at noon")
	}
	for _, hour := range item.Hours {
		if len(hour.Shifts) != 1 {
			t.Errorf("expected 1 shift on day %d, got %d", hour.DayOfWeek, len(hour.Shifts))
		}
	}
}

func TestSearchRadiusAndDistanceSort(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	near := seedStore(t, testDB, merchant.ID, "Near", -6.2, 106.8)
	mid := seedStore(t, testDB, merchant.ID, "Mid", -6.21, 106.8)
	far := seedStore(t, testDB, merchant.ID, "Far", -6.5, 106.8) // ~33km away
	for _, st := range []models.Store{near, mid, far} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	result, err := s.Search(context.Background(), baseFC())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if result.Total != 2 {
		t.Fatalf("expected far store filtered out, got total %d", result.Total)
	}
	if result.Items[0].Name != "Near" || result.Items[1].Name != "Mid" {
		t.Errorf("expected distance ascending order, got %s then %s", result.Items[0].Name, result.Items[1].Name)
	}
	if result.Items[0].DistanceInKM >= result.Items[1].DistanceInKM {
		t.Errorf("distances not ascending: %v then %v", result.Items[0].DistanceInKM, result.Items[1].DistanceInKM)
	}
}

func TestSearchExcludesClosedByDefault(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	open := seedStore(t, testDB, merchant.ID, "Open", -6.2, 106.8)
	seedOpenWeek(t, testDB, open.ID, "09:00", "21:00")

	// Closed today: monday row toggled off.
	closed := seedStore(t, testDB, merchant.ID, "Closed Monday", -6.2, 106.81)
	seedDay(t, testDB, closed.ID, 1, false, false, [][2]string{{"09:00", "21:00"}})

	// No schedule at all fails closed.
	bare := seedStore(t, testDB, merchant.ID, "No Schedule", -6.2, 106.82)
	_ = bare

	fc := baseFC()
	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Open" {
		t.Fatalf("expected only the open store, got %d items", result.Total)
	}

	fc.IncludeClosed = true
	result, err = s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected all stores with include_closed, got %d", result.Total)
	}
	for _, item := range result.Items {
		wantOpen := item.Name == "Open"
		if item.OperationalStatus != wantOpen {
			t.Errorf("store %s: operational status %v, want %v", item.Name, item.OperationalStatus, wantOpen)
		}
	}
}

func TestSearchManualToggleClosesStore(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	store := seedStore(t, testDB, merchant.ID, "Toggled Off", -6.2, 106.8, withManualClosed())
	seedOpenWeek(t, testDB, store.ID, "09:00", "21:00")

	result, err := s.Search(context.Background(), baseFC())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("expected manually closed store excluded, got %d", result.Total)
	}
}

func TestSearch24hFlagFilter(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	always := seedStore(t, testDB, merchant.ID, "Always Open", -6.2, 106.8, with24h())
	// Day rows exist but carry no shifts; the store-level flag keeps it open.
	for day := 0; day < 7; day++ {
		seedDay(t, testDB, always.ID, day, true, false, nil)
	}

	regular := seedStore(t, testDB, merchant.ID, "Regular", -6.2, 106.81)
	seedOpenWeek(t, testDB, regular.ID, "09:00", "21:00")

	open24h := true
	fc := baseFC()
	fc.Open24h = &open24h

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Always Open" {
		t.Fatalf("expected only the 24h store, got %d items", result.Total)
	}
	if !result.Items[0].OperationalStatus {
		t.Error("24h store should be operationally open without shifts")
	}
}

func TestSearchKeywordRanking(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	// Tier 3 (menu only) placed nearest, tier 1 farthest: tier must win over
	// distance.
	menuOnly := seedStore(t, testDB, merchant.ID, "Warung Sedap", -6.2, 106.8)
	seedMenuItem(t, testDB, menuOnly.ID, "Bakso Halus")

	nameOnly := seedStore(t, testDB, merchant.ID, "Bakso Mantap", -6.21, 106.8)
	seedMenuItem(t, testDB, nameOnly.ID, "Sate Ayam")

	both := seedStore(t, testDB, merchant.ID, "Bakso Podomoro", -6.22, 106.8)
	seedMenuItem(t, testDB, both.ID, "Bakso Urat")

	noMatch := seedStore(t, testDB, merchant.ID, "Nasi Goreng 88", -6.2, 106.8)
	seedMenuItem(t, testDB, noMatch.ID, "Nasi Goreng Spesial")

	for _, st := range []models.Store{menuOnly, nameOnly, both, noMatch} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	fc := baseFC()
	fc.Keyword = "bakso"

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected 3 matches, got %d", result.Total)
	}

	want := []string{"Bakso Podomoro", "Bakso Mantap", "Warung Sedap"}
	for i, item := range result.Items {
		if item.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], item.Name)
		}
	}
}

func TestSearchKeywordIgnoresUnavailableMenuItems(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	store := seedStore(t, testDB, merchant.ID, "Warung Sedap", -6.2, 106.8)
	seedOpenWeek(t, testDB, store.ID, "09:00", "21:00")
	item := seedMenuItem(t, testDB, store.ID, "Bakso Spesial")
	testDB.Model(&models.MenuItem{}).Where("id = ?", item.ID).Update("is_available", false)

	fc := baseFC()
	fc.Keyword = "bakso"

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("expected unavailable menu item not to match, got %d", result.Total)
	}
}

// Selecting the cheapest and the open-ended bucket together must include a
// store priced just past the bounded bucket's edge.
func TestSearchPriceBucketsWithOpenEndedSelection(t *testing.T) {
	s := newSearcher(t)
	seedDefaultBuckets(t, testDB)
	merchant := seedMerchant(t, testDB, "Makan Group")

	cheap := seedStore(t, testDB, merchant.ID, "Cheap Eats", -6.2, 106.8, withPrice(15000))
	edge := seedStore(t, testDB, merchant.ID, "Edge Case", -6.2, 106.81, withPrice(50001))
	middle := seedStore(t, testDB, merchant.ID, "Middle", -6.2, 106.82, withPrice(30000))
	for _, st := range []models.Store{cheap, edge, middle} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	fc := baseFC()
	fc.HasPriceFilter = true
	fc.PriceLows = []float64{0, 50001}
	fc.PriceHighs = []float64{50000, 0}

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected all 3 stores within the combined window, got %d", result.Total)
	}
	for _, item := range result.Items {
		if item.Name == "Edge Case" && item.PriceSymbol != "$$$" {
			t.Errorf("expected $$$ symbol for 50001, got %q", item.PriceSymbol)
		}
		if item.Name == "Cheap Eats" && item.PriceSymbol != "$" {
			t.Errorf("expected $ symbol for 15000, got %q", item.PriceSymbol)
		}
	}
}

func TestSearchBudgetCap(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	cheap := seedStore(t, testDB, merchant.ID, "Cheap", -6.2, 106.8, withPrice(15000))
	pricey := seedStore(t, testDB, merchant.ID, "Pricey", -6.2, 106.81, withPrice(80000))
	for _, st := range []models.Store{cheap, pricey} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	budget := 20000.0
	fc := baseFC()
	fc.BudgetCap = &budget

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Cheap" {
		t.Fatalf("expected only the budget store, got %d items", result.Total)
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	noodles := seedCategory(t, testDB, map[string]string{"id": "Mi & Bakso"})

	tagged := seedStore(t, testDB, merchant.ID, "Tagged", -6.2, 106.8)
	plain := seedStore(t, testDB, merchant.ID, "Plain", -6.2, 106.81)
	for _, st := range []models.Store{tagged, plain} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}
	assignCategory(t, testDB, tagged.ID, noodles.ID)

	fc := baseFC()
	fc.CategoryID = &noodles.ID

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Tagged" {
		t.Fatalf("expected only the tagged store, got %d items", result.Total)
	}
}

func TestSearchPickupFilter(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	deliveryOnly := seedStore(t, testDB, merchant.ID, "Delivery Only", -6.2, 106.8,
		withDeliveryType(models.DeliveryTypeDelivery))
	pickupToo := seedStore(t, testDB, merchant.ID, "Pickup Too", -6.2, 106.81,
		withDeliveryType(models.DeliveryTypeDeliveryPickup))
	for _, st := range []models.Store{deliveryOnly, pickupToo} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	fc := baseFC()
	fc.DeliveryTypes = []models.DeliveryType{models.DeliveryTypePickup, models.DeliveryTypeDeliveryPickup}

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Pickup Too" {
		t.Fatalf("expected only the pickup-capable store, got %d items", result.Total)
	}

	// Declining pickup narrows to delivery-only stores; hybrids drop out.
	fc.DeliveryTypes = []models.DeliveryType{models.DeliveryTypeDelivery}
	result, err = s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Delivery Only" {
		t.Fatalf("expected only the delivery-only store, got %d items", result.Total)
	}
}

func TestSearchSortByPriceDesc(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	prices := []float64{30000, 10000, 50000}
	names := []string{"Mid", "Low", "High"}
	for i := range prices {
		st := seedStore(t, testDB, merchant.ID, names[i], -6.2, 106.8+float64(i)*0.01, withPrice(prices[i]))
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	fc := baseFC()
	fc.SortBy = SortByPrice
	fc.SortDesc = true

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	want := []string{"High", "Mid", "Low"}
	for i, item := range result.Items {
		if item.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], item.Name)
		}
	}
}

func TestSearchSortByOrders(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	busy := seedStore(t, testDB, merchant.ID, "Busy", -6.21, 106.8, withOrders(500))
	quiet := seedStore(t, testDB, merchant.ID, "Quiet", -6.2, 106.8, withOrders(5))
	for _, st := range []models.Store{busy, quiet} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	fc := baseFC()
	fc.SortBy = SortByOrders
	fc.SortDesc = true

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Items[0].Name != "Busy" {
		t.Errorf("expected Busy first despite being farther, got %s", result.Items[0].Name)
	}
}

func TestSearchFavoritesOrdering(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	first := seedStore(t, testDB, merchant.ID, "First Pick", -6.22, 106.8)
	second := seedStore(t, testDB, merchant.ID, "Second Pick", -6.2, 106.8)
	outsider := seedStore(t, testDB, merchant.ID, "Outsider", -6.21, 106.8)
	for _, st := range []models.Store{first, second, outsider} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	fc := baseFC()
	fc.FavoriteIDs = []uuid.UUID{first.ID, second.ID}

	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected non-curated store excluded, got %d", result.Total)
	}
	if result.Items[0].Name != "First Pick" || result.Items[1].Name != "Second Pick" {
		t.Errorf("expected curated order, got %s then %s", result.Items[0].Name, result.Items[1].Name)
	}
}

func TestSearchPaginationIsStable(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	for i := 0; i < 25; i++ {
		st := seedStore(t, testDB, merchant.ID, "Store", -6.2-float64(i)*0.001, 106.8)
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}

	seen := make(map[uuid.UUID]bool)
	pageSizes := []int{10, 10, 5}
	for page := 1; page <= 3; page++ {
		fc := baseFC()
		fc.Page = page
		fc.PageSize = 10

		result, err := s.Search(context.Background(), fc)
		if err != nil {
			t.Fatalf("page %d failed: %v", page, err)
		}
		if result.Total != 25 {
			t.Errorf("page %d: expected total 25, got %d", page, result.Total)
		}
		if len(result.Items) != pageSizes[page-1] {
			t.Errorf("page %d: expected %d items, got %d", page, pageSizes[page-1], len(result.Items))
		}
		for _, item := range result.Items {
			if seen[item.ID] {
				t.Errorf("store %s appeared on more than one page", item.ID)
			}
			seen[item.ID] = true
		}
	}
	if len(seen) != 25 {
		t.Errorf("expected 25 distinct stores across pages, got %d", len(seen))
	}

	fc := baseFC()
	fc.Page = 4
	fc.PageSize = 10
	result, err := s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("page past the end failed: %v", err)
	}
	if len(result.Items) != 0 || result.Total != 25 {
		t.Errorf("expected empty page with intact total, got %d items total %d", len(result.Items), result.Total)
	}
}

func TestSearchExcludesSoftDeletedAndInactive(t *testing.T) {
	s := newSearcher(t)
	merchant := seedMerchant(t, testDB, "Makan Group")

	kept := seedStore(t, testDB, merchant.ID, "Kept", -6.2, 106.8)
	inactive := seedStore(t, testDB, merchant.ID, "Inactive", -6.2, 106.81, withStatus(models.StoreStatusInactive))
	deleted := seedStore(t, testDB, merchant.ID, "Deleted", -6.2, 106.82)
	for _, st := range []models.Store{kept, inactive, deleted} {
		seedOpenWeek(t, testDB, st.ID, "09:00", "21:00")
	}
	testDB.Delete(&models.Store{}, "id = ?", deleted.ID)

	result, err := s.Search(context.Background(), baseFC())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 1 || result.Items[0].Name != "Kept" {
		t.Fatalf("expected only the active store, got %d items", result.Total)
	}

	fc := baseFC()
	fc.IncludeInactive = true
	result, err = s.Search(context.Background(), fc)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected inactive included on request, got %d", result.Total)
	}
}
