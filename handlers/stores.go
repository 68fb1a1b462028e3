package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"makanloka-backend/discovery"
	"makanloka-backend/dtos"
	"makanloka-backend/models"
	"makanloka-backend/utils"
)

// StoreHandler serves the read-only store surfaces next to search: store
// detail, categories and price range buckets. Store CRUD lives in the
// merchant portal service.
type StoreHandler struct {
	DB      *gorm.DB
	History discovery.HistoryRecorder
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var store models.Store
	err = h.DB.
		Preload("Hours.Shifts").
		Preload("Categories.Translations").
		Preload("Addons").
		Preload("Merchant").
		Where("id = ?", id).
		First(&store).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	lang := c.Query("lang")
	if lang == "" {
		lang = discovery.DefaultLang
	}

	agg := storeToAggregate(&store, lang)

	if lat, latErr := queryFloat(c, "lat"); latErr == nil && lat != nil {
		if lng, lngErr := queryFloat(c, "lng"); lngErr == nil && lng != nil {
			distance := utils.DistanceKM(*lat, *lng, store.Latitude, store.Longitude)
			agg.DistanceInKM = float64(int(distance*100)) / 100
		}
	}

	agg.OperationalStatus = discovery.IsOperationallyOpen(
		store.IsStoreOpen, store.IsOpen24h, store.Hours,
		time.Now().UTC(), discovery.DefaultPlatformOffsetMinutes,
	)

	var buckets []models.PriceRangeBucket
	if err := h.DB.Order("sequence").Find(&buckets).Error; err == nil {
		if bucket := discovery.BucketForPrice(buckets, store.AveragePrice); bucket != nil {
			agg.PriceBucket = bucket
			agg.PriceSymbol = bucket.Symbol
		}
	}

	if h.History != nil {
		h.History.RecordStore(customerIDFrom(c), store.ID, lang)
	}

	c.JSON(http.StatusOK, agg)
}

func (h *StoreHandler) GetCategories(c *gin.Context) {
	lang := c.Query("lang")
	if lang == "" {
		lang = discovery.DefaultLang
	}

	var categories []models.StoreCategory
	if err := h.DB.Preload("Translations").Where("is_active = ?", true).Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	views := make([]dtos.CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, dtos.CategoryView{
			ID:    categories[i].ID,
			Name:  categories[i].NameFor(lang, discovery.FallbackLang),
			Image: categories[i].Image,
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *StoreHandler) GetPriceRanges(c *gin.Context) {
	var buckets []models.PriceRangeBucket
	if err := h.DB.Order("sequence").Find(&buckets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch price ranges"})
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func storeToAggregate(store *models.Store, lang string) *dtos.StoreAggregate {
	agg := &dtos.StoreAggregate{
		ID:           store.ID,
		MerchantID:   store.MerchantID,
		MerchantName: store.Merchant.Name,
		Name:         store.Name,
		Address:      store.Address,
		City:         store.City,
		Latitude:     store.Latitude,
		Longitude:    store.Longitude,
		Status:       store.Status,
		DeliveryType: store.DeliveryType,
		AveragePrice: store.AveragePrice,
		Rating:       store.Rating,
		OrderCount:   store.OrderCount,
		IsOpen24h:    store.IsOpen24h,
		Addons:       []dtos.AddonView{},
		Hours:        []dtos.HourView{},
		Categories:   []dtos.CategoryView{},
	}
	for _, addon := range store.Addons {
		agg.Addons = append(agg.Addons, dtos.AddonView{ID: addon.ID, Name: addon.Name})
	}
	for _, hour := range store.Hours {
		view := dtos.HourView{
			ID:        hour.ID,
			DayOfWeek: hour.DayOfWeek,
			IsOpen:    hour.IsOpen,
			IsOpen24h: hour.IsOpen24h,
			GMTOffset: hour.GMTOffset,
			Shifts:    make([]dtos.ShiftView, 0, len(hour.Shifts)),
		}
		for _, shift := range hour.Shifts {
			view.Shifts = append(view.Shifts, dtos.ShiftView{OpenHour: shift.OpenHour, CloseHour: shift.CloseHour})
		}
		agg.Hours = append(agg.Hours, view)
	}
	for i := range store.Categories {
		cat := &store.Categories[i]
		agg.Categories = append(agg.Categories, dtos.CategoryView{
			ID:    cat.ID,
			Name:  cat.NameFor(lang, discovery.FallbackLang),
			Image: cat.Image,
		})
	}
	return agg
}
