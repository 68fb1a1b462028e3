package discovery

import (
	"errors"
	"testing"

	"makanloka-backend/models"
)

func defaultBuckets() []models.PriceRangeBucket {
	return []models.PriceRangeBucket{
		{ID: 1, PriceLow: 0, PriceHigh: 25000, Symbol: "$", Sequence: 1},
		{ID: 2, PriceLow: 25001, PriceHigh: 50000, Symbol: "$$", Sequence: 2},
		{ID: 3, PriceLow: 50001, PriceHigh: 100000, Symbol: "$$$", Sequence: 3},
		{ID: 4, PriceLow: 100001, PriceHigh: 0, Symbol: "$$$$", Sequence: 4},
	}
}

func TestBucketForPrice(t *testing.T) {
	buckets := defaultBuckets()

	tests := []struct {
		price float64
		want  string
	}{
		{0, "$"},
		{25000, "$"},
		{25001, "$$"},
		{50000, "$$"},
		{50001, "$$$"},
		{100000, "$$$"},
		{100001, "$$$$"},
		{9999999, "$$$$"},
	}
	for _, tt := range tests {
		bucket := BucketForPrice(buckets, tt.price)
		if bucket == nil {
			t.Errorf("price %.0f: expected bucket %s, got nil", tt.price, tt.want)
			continue
		}
		if bucket.Symbol != tt.want {
			t.Errorf("price %.0f: expected %s, got %s", tt.price, tt.want, bucket.Symbol)
		}
	}
}

func TestBucketForPriceNoMatch(t *testing.T) {
	buckets := []models.PriceRangeBucket{
		{ID: 1, PriceLow: 10000, PriceHigh: 20000, Symbol: "$", Sequence: 1},
	}
	if bucket := BucketForPrice(buckets, 5000); bucket != nil {
		t.Errorf("expected nil bucket below all lows, got %s", bucket.Symbol)
	}
	if bucket := BucketForPrice(nil, 5000); bucket != nil {
		t.Error("expected nil bucket with no buckets configured")
	}
}

func TestBucketForPriceIgnoresStorageOrder(t *testing.T) {
	// Buckets arrive in arbitrary order; sequence decides.
	buckets := []models.PriceRangeBucket{
		{ID: 4, PriceLow: 100001, PriceHigh: 0, Symbol: "$$$$", Sequence: 4},
		{ID: 1, PriceLow: 0, PriceHigh: 25000, Symbol: "$", Sequence: 1},
	}
	bucket := BucketForPrice(buckets, 1000)
	if bucket == nil || bucket.Symbol != "$" {
		t.Errorf("expected $ bucket, got %+v", bucket)
	}
}

func TestBoundsForBuckets(t *testing.T) {
	buckets := defaultBuckets()

	lows, highs, err := BoundsForBuckets(buckets, []uint{1, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lows) != 2 || len(highs) != 2 {
		t.Fatalf("expected 2 bounds, got %d/%d", len(lows), len(highs))
	}
	if lows[0] != 0 || highs[0] != 25000 {
		t.Errorf("bucket 1 bounds wrong: %v/%v", lows[0], highs[0])
	}
	if lows[1] != 100001 || highs[1] != 0 {
		t.Errorf("bucket 4 bounds wrong: %v/%v", lows[1], highs[1])
	}
}

func TestBoundsForBucketsUnknownID(t *testing.T) {
	_, _, err := BoundsForBuckets(defaultBuckets(), []uint{1, 99})
	if err == nil {
		t.Fatal("expected error for unknown bucket id")
	}
	var inputErr *ClientInputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected ClientInputError, got %T", err)
	}
	if inputErr.Field != "price_range_ids" {
		t.Errorf("expected field price_range_ids, got %s", inputErr.Field)
	}
}
