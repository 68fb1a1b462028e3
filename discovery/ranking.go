package discovery

import (
	"sort"

	"github.com/google/uuid"
)

// Keyword relevance tiers. Lower ranks first. Stores matching neither the
// store name nor a menu item are excluded before ranking.
const (
	tierNameAndMenu = 1
	tierNameOnly    = 2
	tierMenuOnly    = 3
)

func keywordTier(nameMatch, menuMatch bool) int {
	switch {
	case nameMatch && menuMatch:
		return tierNameAndMenu
	case nameMatch:
		return tierNameOnly
	default:
		return tierMenuOnly
	}
}

// rankByKeyword orders matches by tier, then distance within a tier, so a
// tier-1 store precedes a tier-2 store at any radius.
func rankByKeyword(stores []*foldedStore) {
	sort.SliceStable(stores, func(i, j int) bool {
		ti := keywordTier(stores[i].NameMatch, stores[i].MenuMatch)
		tj := keywordTier(stores[j].NameMatch, stores[j].MenuMatch)
		if ti != tj {
			return ti < tj
		}
		if stores[i].Agg.DistanceInKM != stores[j].Agg.DistanceInKM {
			return stores[i].Agg.DistanceInKM < stores[j].Agg.DistanceInKM
		}
		return stores[i].Agg.ID.String() < stores[j].Agg.ID.String()
	})
}

// rankByFavorites reorders matches to follow the curated list. The SQL
// clause already restricted results to curated members; anything missing
// from the list (defensive only) sinks to the end.
func rankByFavorites(stores []*foldedStore, curated []uuid.UUID) {
	position := make(map[uuid.UUID]int, len(curated))
	for i, id := range curated {
		position[id] = i
	}
	sort.SliceStable(stores, func(i, j int) bool {
		pi, iOK := position[stores[i].Agg.ID]
		pj, jOK := position[stores[j].Agg.ID]
		if iOK != jOK {
			return iOK
		}
		if pi != pj {
			return pi < pj
		}
		return stores[i].Agg.ID.String() < stores[j].Agg.ID.String()
	})
}

// rankBySort applies the requested sort key with a stable store-id
// tie-break so pagination never shows an item twice or skips one.
func rankBySort(stores []*foldedStore, key SortKey, desc bool) {
	value := func(s *foldedStore) float64 {
		switch key {
		case SortByPrice:
			return s.Agg.AveragePrice
		case SortByOrders:
			return float64(s.Agg.OrderCount)
		default:
			return s.Agg.DistanceInKM
		}
	}
	sort.SliceStable(stores, func(i, j int) bool {
		vi, vj := value(stores[i]), value(stores[j])
		if vi != vj {
			if desc {
				return vi > vj
			}
			return vi < vj
		}
		return stores[i].Agg.ID.String() < stores[j].Agg.ID.String()
	})
}

func paginate(stores []*foldedStore, page, size int) []*foldedStore {
	start := (page - 1) * size
	if start >= len(stores) {
		return nil
	}
	end := start + size
	if end > len(stores) {
		end = len(stores)
	}
	return stores[start:end]
}
