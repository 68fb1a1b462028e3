package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"makanloka-backend/discovery"
	"makanloka-backend/dtos"
	"makanloka-backend/logger"
	"makanloka-backend/metrics"
	"makanloka-backend/models"
	"makanloka-backend/utils"
)

var validate = validator.New()

type DiscoveryHandler struct {
	DB         *gorm.DB
	Compiler   *discovery.Compiler
	Relational discovery.StoreSearcher
	Indexed    discovery.StoreSearcher // nil when the index is not configured
	History    discovery.HistoryRecorder
	Log        logger.Logger
}

// SearchStores is the discovery entry point. The filter compiler resolves
// every default, the chosen backend executes, and history capture happens
// off the request path.
func (h *DiscoveryHandler) SearchStores(c *gin.Context) {
	req, err := parseDiscoveryQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var buckets []models.PriceRangeBucket
	if len(req.PriceRangeIDs) > 0 {
		if err := h.DB.Order("sequence").Find(&buckets).Error; err != nil {
			h.Log.WithError(err).Error("price bucket load failed", nil)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Store search is temporarily unavailable"})
			return
		}
	}

	fc, err := h.Compiler.Compile(c.Request.Context(), req, buckets)
	if err != nil {
		h.respondError(c, err)
		return
	}

	backend := h.Relational
	backendName := "relational"
	if strings.EqualFold(c.Query("source"), "index") {
		if h.Indexed == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Index search is not available"})
			return
		}
		if missing := discovery.MissingCapabilities(fc, h.Indexed.Capabilities()); len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":       "Requested filters are not supported by index search",
				"unsupported": missing,
			})
			return
		}
		backend = h.Indexed
		backendName = "index"
	}

	metrics.CountSearch(backendName)
	result, err := backend.Search(c.Request.Context(), fc)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []*dtos.StoreAggregate{}
	}

	if fc.Keyword != "" && h.History != nil {
		customerID := customerIDFrom(c)
		h.History.RecordKeyword(customerID, fc.Keyword, fc.Lang)
		if len(items) > 0 {
			h.History.RecordStore(customerID, items[0].ID, fc.Lang)
		}
	}
	c.JSON(http.StatusOK, dtos.DiscoveryResponse{
		Total: result.Total,
		Limit: result.PageSize,
		Page:  result.Page,
		Items: items,
	})
}

func (h *DiscoveryHandler) respondError(c *gin.Context, err error) {
	var inputErr *discovery.ClientInputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error()})
		return
	}
	var configErr *discovery.ConfigurationMissingError
	if errors.As(err, &configErr) {
		h.Log.WithError(err).Error("discovery configuration missing", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	}
	var backendErr *discovery.BackendUnavailableError
	if errors.As(err, &backendErr) {
		h.Log.WithError(err).Error("discovery backend unavailable", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store search is temporarily unavailable"})
		return
	}
	h.Log.WithError(err).Error("discovery search failed", nil)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func parseDiscoveryQuery(c *gin.Context) (dtos.DiscoveryRequest, error) {
	var req dtos.DiscoveryRequest

	lat, err := queryFloat(c, "lat")
	if err != nil {
		return req, err
	}
	lng, err := queryFloat(c, "lng")
	if err != nil {
		return req, err
	}
	req.Latitude = lat
	req.Longitude = lng

	if radius, err := queryFloat(c, "radius"); err != nil {
		return req, err
	} else if radius != nil {
		req.RadiusKM = *radius
	}

	req.Keyword = c.Query("q")
	req.Lang = c.Query("lang")
	req.SortBy = c.Query("sort_by")
	req.SortDir = c.Query("sort_dir")

	if req.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		return req, err
	}
	if req.MerchantID, err = queryUUID(c, "merchant_id"); err != nil {
		return req, err
	}

	if raw := c.Query("price_range_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				return req, &discovery.ClientInputError{Field: "price_range_ids", Reason: "must be a comma-separated list of ids"}
			}
			req.PriceRangeIDs = append(req.PriceRangeIDs, uint(id))
		}
	}

	if req.Pickup, err = queryBoolPtr(c, "pickup"); err != nil {
		return req, err
	}
	if req.Open24h, err = queryBoolPtr(c, "is_24hrs"); err != nil {
		return req, err
	}
	if req.IncludeClosed, err = queryBool(c, "include_closed"); err != nil {
		return req, err
	}
	if req.IncludeInactive, err = queryBool(c, "include_inactive"); err != nil {
		return req, err
	}
	if req.NewThisWeek, err = queryBool(c, "new_this_week"); err != nil {
		return req, err
	}
	if req.BudgetMeal, err = queryBool(c, "budget_meal"); err != nil {
		return req, err
	}
	if req.FavoriteThisWeek, err = queryBool(c, "favorite_this_week"); err != nil {
		return req, err
	}

	if rating, err := queryFloat(c, "min_rating"); err != nil {
		return req, err
	} else if rating != nil {
		req.MinRating = *rating
	}

	if page, err := queryInt(c, "page"); err != nil {
		return req, err
	} else if page != nil {
		req.Page = *page
	}
	if size, err := queryInt(c, "page_size"); err != nil {
		return req, err
	} else if size != nil {
		req.PageSize = *size
	}

	return req, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &discovery.ClientInputError{Field: name, Reason: "must be a number"}
	}
	return &v, nil
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &discovery.ClientInputError{Field: name, Reason: "must be an integer"}
	}
	return &v, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &discovery.ClientInputError{Field: name, Reason: "must be true or false"}
	}
	return v, nil
}

func queryBoolPtr(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &discovery.ClientInputError{Field: name, Reason: "must be true or false"}
	}
	return &v, nil
}

func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &discovery.ClientInputError{Field: name, Reason: "must be a valid uuid"}
	}
	return &id, nil
}

// customerIDFrom reads the optional authenticated identity set by the auth
// middleware. Anonymous searches are recorded without a customer id.
func customerIDFrom(c *gin.Context) *uuid.UUID {
	raw, exists := c.Get("customer_id")
	if !exists {
		return nil
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
