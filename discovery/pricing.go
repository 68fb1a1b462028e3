package discovery

import (
	"fmt"
	"sort"

	"makanloka-backend/models"
)

// BucketForPrice returns the bucket labeling the given average price: the
// first bucket by sequence where price_low <= price <= price_high, with
// price_high == 0 meaning unbounded. No match returns nil (no symbol, not an
// error).
func BucketForPrice(buckets []models.PriceRangeBucket, price float64) *models.PriceRangeBucket {
	ordered := make([]models.PriceRangeBucket, len(buckets))
	copy(ordered, buckets)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	for i := range ordered {
		b := ordered[i]
		if price < b.PriceLow {
			continue
		}
		if b.PriceHigh == 0 || price <= b.PriceHigh {
			return &ordered[i]
		}
	}
	return nil
}

// BoundsForBuckets resolves the selected bucket ids into parallel low/high
// arrays for any-of filtering. An unknown id is a client input error.
func BoundsForBuckets(buckets []models.PriceRangeBucket, ids []uint) (lows, highs []float64, err error) {
	byID := make(map[uint]models.PriceRangeBucket, len(buckets))
	for _, b := range buckets {
		byID[b.ID] = b
	}

	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, nil, &ClientInputError{
				Field:  "price_range_ids",
				Reason: fmt.Sprintf("unknown price range bucket %d", id),
			}
		}
		lows = append(lows, b.PriceLow)
		highs = append(highs, b.PriceHigh)
	}
	return lows, highs, nil
}
