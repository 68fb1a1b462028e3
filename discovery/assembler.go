package discovery

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"makanloka-backend/dtos"
	"makanloka-backend/models"
)

// storeRow is one flat row of the joined discovery query. Join columns are
// nullable because every join is a LEFT JOIN.
type storeRow struct {
	ID           uuid.UUID           `gorm:"column:id"`
	MerchantID   uuid.UUID           `gorm:"column:merchant_id"`
	Name         string              `gorm:"column:name"`
	Address      string              `gorm:"column:address"`
	City         string              `gorm:"column:city"`
	Latitude     float64             `gorm:"column:latitude"`
	Longitude    float64             `gorm:"column:longitude"`
	Status       models.StoreStatus  `gorm:"column:status"`
	DeliveryType models.DeliveryType `gorm:"column:delivery_type"`
	AveragePrice float64             `gorm:"column:average_price"`
	IsOpen24h    bool                `gorm:"column:is_open_24h"`
	IsStoreOpen  bool                `gorm:"column:is_store_open"`
	Rating       float64             `gorm:"column:rating"`
	OrderCount   int64               `gorm:"column:order_count"`
	ApprovedAt   *time.Time          `gorm:"column:approved_at"`

	AddonID   *uuid.UUID `gorm:"column:addon_id"`
	AddonName *string    `gorm:"column:addon_name"`

	HourID        *uuid.UUID `gorm:"column:hour_id"`
	HourDay       *int       `gorm:"column:hour_day"`
	HourIsOpen    *bool      `gorm:"column:hour_is_open"`
	HourIs24h     *bool      `gorm:"column:hour_is_24h"`
	HourGMTOffset *int       `gorm:"column:hour_gmt_offset"`

	CategoryID    *uuid.UUID `gorm:"column:category_id"`
	CategoryImage *string    `gorm:"column:category_image"`
	CategoryLang  *string    `gorm:"column:category_lang"`
	CategoryName  *string    `gorm:"column:category_name"`
}

// foldedStore is one store mid-assembly: the outgoing aggregate plus the
// raw schedule and match state the backend still needs before it can decide
// inclusion and ordering.
type foldedStore struct {
	Agg            *dtos.StoreAggregate
	ManualOpen     bool
	StoreAlways24h bool
	Week           []models.OperationalHours
	NameMatch      bool
	MenuMatch      bool
}

// foldRows collapses the flat join product back into one aggregate per
// store. Rows arrive ordered only by store id; every nested collection is
// de-duplicated with a per-store seen set because the join multiplies rows
// (addons x hours x category translations).
func foldRows(rows []storeRow, lang string) []*foldedStore {
	var out []*foldedStore
	index := make(map[uuid.UUID]int)

	seenAddons := make(map[uuid.UUID]map[uuid.UUID]struct{})
	seenHours := make(map[uuid.UUID]map[uuid.UUID]struct{})
	seenCats := make(map[uuid.UUID]map[uuid.UUID]struct{})
	catNames := make(map[uuid.UUID]map[uuid.UUID]map[string]string)

	for i := range rows {
		r := rows[i]
		pos, ok := index[r.ID]
		if !ok {
			pos = len(out)
			index[r.ID] = pos
			out = append(out, &foldedStore{
				Agg: &dtos.StoreAggregate{
					ID:           r.ID,
					MerchantID:   r.MerchantID,
					Name:         r.Name,
					Address:      r.Address,
					City:         r.City,
					Latitude:     r.Latitude,
					Longitude:    r.Longitude,
					Status:       r.Status,
					DeliveryType: r.DeliveryType,
					AveragePrice: r.AveragePrice,
					Rating:       r.Rating,
					OrderCount:   r.OrderCount,
					IsOpen24h:    r.IsOpen24h,
					Addons:       []dtos.AddonView{},
					Hours:        []dtos.HourView{},
					Categories:   []dtos.CategoryView{},
				},
				ManualOpen:     r.IsStoreOpen,
				StoreAlways24h: r.IsOpen24h,
			})
			seenAddons[r.ID] = make(map[uuid.UUID]struct{})
			seenHours[r.ID] = make(map[uuid.UUID]struct{})
			seenCats[r.ID] = make(map[uuid.UUID]struct{})
			catNames[r.ID] = make(map[uuid.UUID]map[string]string)
		}
		st := out[pos]

		if r.AddonID != nil {
			if _, dup := seenAddons[r.ID][*r.AddonID]; !dup {
				seenAddons[r.ID][*r.AddonID] = struct{}{}
				name := ""
				if r.AddonName != nil {
					name = *r.AddonName
				}
				st.Agg.Addons = append(st.Agg.Addons, dtos.AddonView{ID: *r.AddonID, Name: name})
			}
		}

		if r.HourID != nil {
			if _, dup := seenHours[r.ID][*r.HourID]; !dup {
				seenHours[r.ID][*r.HourID] = struct{}{}
				hour := models.OperationalHours{ID: *r.HourID, StoreID: r.ID}
				if r.HourDay != nil {
					hour.DayOfWeek = *r.HourDay
				}
				if r.HourIsOpen != nil {
					hour.IsOpen = *r.HourIsOpen
				}
				if r.HourIs24h != nil {
					hour.IsOpen24h = *r.HourIs24h
				}
				if r.HourGMTOffset != nil {
					hour.GMTOffset = *r.HourGMTOffset
				}
				st.Week = append(st.Week, hour)
			}
		}

		if r.CategoryID != nil {
			if _, dup := seenCats[r.ID][*r.CategoryID]; !dup {
				seenCats[r.ID][*r.CategoryID] = struct{}{}
				image := ""
				if r.CategoryImage != nil {
					image = *r.CategoryImage
				}
				st.Agg.Categories = append(st.Agg.Categories, dtos.CategoryView{ID: *r.CategoryID, Image: image})
				catNames[r.ID][*r.CategoryID] = make(map[string]string)
			}
			if r.CategoryLang != nil && r.CategoryName != nil {
				catNames[r.ID][*r.CategoryID][*r.CategoryLang] = *r.CategoryName
			}
		}
	}

	for _, st := range out {
		names := catNames[st.Agg.ID]
		for i := range st.Agg.Categories {
			st.Agg.Categories[i].Name = localizedName(names[st.Agg.Categories[i].ID], lang)
		}
	}
	return out
}

func localizedName(variants map[string]string, lang string) string {
	if name, ok := variants[lang]; ok {
		return name
	}
	if name, ok := variants[FallbackLang]; ok {
		return name
	}
	for _, name := range variants {
		return name
	}
	return ""
}

// attachShifts loads all shift windows for the folded stores in one query
// and distributes them to the week schedules and the outgoing hour views.
func attachShifts(ctx context.Context, db *gorm.DB, stores []*foldedStore) error {
	var hourIDs []uuid.UUID
	for _, st := range stores {
		for _, h := range st.Week {
			hourIDs = append(hourIDs, h.ID)
		}
	}
	if len(hourIDs) == 0 {
		return nil
	}

	var shifts []models.Shift
	if err := db.WithContext(ctx).Where("operational_hours_id IN ?", hourIDs).Order("open_hour").Find(&shifts).Error; err != nil {
		return err
	}
	byHour := make(map[uuid.UUID][]models.Shift)
	for _, s := range shifts {
		byHour[s.OperationalHoursID] = append(byHour[s.OperationalHoursID], s)
	}

	for _, st := range stores {
		for i := range st.Week {
			st.Week[i].Shifts = byHour[st.Week[i].ID]
		}
		st.Agg.Hours = hourViews(st.Week)
	}
	return nil
}

func hourViews(week []models.OperationalHours) []dtos.HourView {
	views := make([]dtos.HourView, 0, len(week))
	for _, h := range week {
		view := dtos.HourView{
			ID:        h.ID,
			DayOfWeek: h.DayOfWeek,
			IsOpen:    h.IsOpen,
			IsOpen24h: h.IsOpen24h,
			GMTOffset: h.GMTOffset,
			Shifts:    make([]dtos.ShiftView, 0, len(h.Shifts)),
		}
		for _, s := range h.Shifts {
			view.Shifts = append(view.Shifts, dtos.ShiftView{OpenHour: s.OpenHour, CloseHour: s.CloseHour})
		}
		views = append(views, view)
	}
	return views
}

func roundDistance(km float64) float64 {
	return math.Round(km*100) / 100
}

// enrichMerchants resolves merchant display names for the final page only.
// Lookups fan out concurrently; a failed lookup leaves the field empty
// rather than failing the search.
func enrichMerchants(ctx context.Context, db *gorm.DB, page []*dtos.StoreAggregate) {
	ids := make(map[uuid.UUID]struct{}, len(page))
	for _, item := range page {
		ids[item.MerchantID] = struct{}{}
	}
	if len(ids) == 0 {
		return
	}

	var mu sync.Mutex
	names := make(map[uuid.UUID]string, len(ids))
	var wg sync.WaitGroup
	for id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			var merchant models.Merchant
			if err := db.WithContext(ctx).Select("id", "name").First(&merchant, "id = ?", id).Error; err != nil {
				return
			}
			mu.Lock()
			names[id] = merchant.Name
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	for _, item := range page {
		item.MerchantName = names[item.MerchantID]
	}
}
