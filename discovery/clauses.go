package discovery

import (
	"fmt"

	"gorm.io/gorm"

	"makanloka-backend/models"
)

type Operator string

const (
	OpEq  Operator = "="
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpIn  Operator = "IN"
)

// Clause is one parameterized predicate against the stores table. Keeping
// clauses as data makes the filter-to-SQL translation unit-testable without
// a database.
type Clause struct {
	Field string
	Op    Operator
	Value interface{}
}

// BuildClauses translates a compiled filter context into store-level SQL
// predicates. Geo distance, keyword matching, category joins and the
// operational predicate are handled by the backend itself, not here.
func BuildClauses(fc *FilterContext) []Clause {
	statuses := []models.StoreStatus{models.StoreStatusActive}
	if fc.IncludeInactive {
		statuses = append(statuses, models.StoreStatusInactive)
	}
	clauses := []Clause{
		{Field: "stores.status", Op: OpIn, Value: statuses},
	}

	if n := len(fc.DeliveryTypes); n > 0 && n < 3 {
		clauses = append(clauses, Clause{Field: "stores.delivery_type", Op: OpIn, Value: fc.DeliveryTypes})
	}
	if fc.Open24h != nil {
		clauses = append(clauses, Clause{Field: "stores.is_open_24h", Op: OpEq, Value: *fc.Open24h})
	}
	if fc.MerchantID != nil {
		clauses = append(clauses, Clause{Field: "stores.merchant_id", Op: OpEq, Value: *fc.MerchantID})
	}
	if fc.MinRating > 0 {
		clauses = append(clauses, Clause{Field: "stores.rating", Op: OpGte, Value: fc.MinRating})
	}
	if fc.NewSince != nil {
		clauses = append(clauses, Clause{Field: "stores.approved_at", Op: OpGte, Value: *fc.NewSince})
	}
	if fc.BudgetCap != nil {
		clauses = append(clauses, Clause{Field: "stores.average_price", Op: OpLte, Value: *fc.BudgetCap})
	}

	if fc.HasPriceFilter {
		low, high, bounded := priceWindow(fc.PriceLows, fc.PriceHighs)
		clauses = append(clauses, Clause{Field: "stores.average_price", Op: OpGte, Value: low})
		if bounded {
			clauses = append(clauses, Clause{Field: "stores.average_price", Op: OpLte, Value: high})
		}
	}

	if len(fc.FavoriteIDs) > 0 {
		clauses = append(clauses, Clause{Field: "stores.id", Op: OpIn, Value: fc.FavoriteIDs})
	}

	return clauses
}

// priceWindow collapses the selected buckets into one envelope: the lowest
// low bound, and the highest high bound unless any bucket is open-ended
// (price_high == 0), in which case the window has no upper edge.
func priceWindow(lows, highs []float64) (low, high float64, bounded bool) {
	low = lows[0]
	for _, l := range lows[1:] {
		if l < low {
			low = l
		}
	}
	bounded = true
	for _, h := range highs {
		if h == 0 {
			bounded = false
			break
		}
		if h > high {
			high = h
		}
	}
	return low, high, bounded
}

// ApplyClauses appends the clause list to a gorm query.
func ApplyClauses(q *gorm.DB, clauses []Clause) *gorm.DB {
	for _, c := range clauses {
		if c.Op == OpIn {
			q = q.Where(fmt.Sprintf("%s IN ?", c.Field), c.Value)
			continue
		}
		q = q.Where(fmt.Sprintf("%s %s ?", c.Field, c.Op), c.Value)
	}
	return q
}
