package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/cache"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/domain/car"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/repo/postgres"
)

// no filters and no pagination, so one key covers the whole index
const listCacheKey = "cars:list:v1"

type CarsStore interface {
	Create(ctx context.Context, req car.CreateCarRequest) (car.Car, error)
	List(ctx context.Context) ([]car.Summary, error)
	GetByID(ctx context.Context, id int64) (car.Car, error)
	Update(ctx context.Context, id int64, fields map[string]any) (car.Car, error)
	Delete(ctx context.Context, id int64) (car.Car, error)
	SetHoldStatus(ctx context.Context, id int64, status car.HoldStatus) (car.Car, error)
}

type CarsHandler struct {
	store CarsStore
	cache *cache.Cache
}

func NewCarsHandler(store CarsStore, listCache *cache.Cache) *CarsHandler {
	return &CarsHandler{
		store: store,
		cache: listCache,
	}
}

func (h *CarsHandler) CreateCar(ctx *gin.Context) {
	var req car.CreateCarRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.store.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create car")
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusCreated, created)
}

func (h *CarsHandler) ListCars(ctx *gin.Context) {
	if cached, ok := h.cache.Get(listCacheKey); ok {
		if summaries, ok := cached.([]car.Summary); ok {
			ctx.JSON(http.StatusOK, summaries)
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	summaries, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list cars")
		return
	}

	h.cache.Set(listCacheKey, summaries)

	ctx.JSON(http.StatusOK, summaries)
}

func (h *CarsHandler) GetCarByID(ctx *gin.Context) {
	id, ok := carID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	found, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			RespondNotFound(ctx, "Car not found")
			return
		}
		RespondInternal(ctx, "Could not fetch car")
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (h *CarsHandler) UpdateCar(ctx *gin.Context) {
	id, ok := carID(ctx)
	if !ok {
		return
	}

	var fields map[string]any

	if err := ctx.ShouldBindJSON(&fields); err != nil {
		RespondBadRequest(ctx, "Invalid request body", nil)
		return
	}

	if len(fields) == 0 {
		RespondBadRequest(ctx, "No fields to update", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.store.Update(cctx, id, fields)

	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrNoFields):
			RespondBadRequest(ctx, "No fields to update", nil)
		case errors.Is(err, postgres.ErrBadField):
			RespondBadRequest(ctx, "Invalid update field", nil)
		case errors.Is(err, car.ErrNotFound):
			RespondNotFound(ctx, "Car not found")
		default:
			RespondInternal(ctx, "Could not update car")
		}
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, updated)
}

func (h *CarsHandler) DeleteCar(ctx *gin.Context) {
	id, ok := carID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	deleted, err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			RespondNotFound(ctx, "Car not found")
			return
		}
		RespondInternal(ctx, "Could not delete car")
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Car deleted successfully",
		"deletedCar": deleted,
	})
}

type HoldRequest struct {
	HoldStatus string `json:"hold_status" binding:"required,oneof=active held"`
}

func (h *CarsHandler) UpdateHoldStatus(ctx *gin.Context) {
	id, ok := carID(ctx)
	if !ok {
		return
	}

	var req HoldRequest

	if !BindJSON(ctx, &req) {
		return
	}

	status, ok := car.ParseHoldStatus(req.HoldStatus)
	if !ok {
		RespondBadRequest(ctx, "Invalid hold status", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.store.SetHoldStatus(cctx, id, status)

	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			RespondNotFound(ctx, "Car not found")
			return
		}
		RespondInternal(ctx, "Could not update hold status")
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, updated)
}

// carID parses the path parameter; anything non-numeric can't name a row, so
// it gets the same 404 as an unknown id.
func carID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondNotFound(ctx, "Car not found")
		return 0, false
	}

	return id, true
}
