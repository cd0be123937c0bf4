package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/foodbridge/backend/api/transport"
	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/pkg/httpcontext"
	claimUC "github.com/foodbridge/backend/usecase/claim"
	listingUC "github.com/foodbridge/backend/usecase/listing"
)

type FoodHandler struct {
	baseHandler
	listings *listingUC.UseCase
	claims   *claimUC.Engine
}

func NewFoodHandler(listings *listingUC.UseCase, claims *claimUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{
		baseHandler: newBaseHandler(adapter, logger),
		listings:    listings,
		claims:      claims,
	}
}

// @Summary Public feed of available food
// @Tags foods
// @Router /api/v1/foods [get]
func (h *FoodHandler) Feed(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listings, err := h.listings.Feed(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(listings, map[string]int{"count": len(listings)}))
}

// @Summary Post a food donation
// @Tags foods
// @Router /api/v1/foods [post]
func (h *FoodHandler) Create(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	var req transport.FoodCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.listings.Create(stdCtx, caller, listingUC.CreateInput{
		Title:               req.Title,
		Quantity:            req.Quantity,
		Location:            req.Location,
		ExpiryTime:          req.ExpiryTime,
		Description:         req.Description,
		Image:               req.Image,
		PickupLocation:      req.PickupLocation,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Claim an available food donation
// @Tags foods
// @Router /api/v1/foods/claim/{id} [put]
func (h *FoodHandler) Claim(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}
	id, ok := h.listingID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.claims.Claim(stdCtx, caller, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Get one food listing
// @Tags foods
// @Router /api/v1/foods/{id} [get]
func (h *FoodHandler) Get(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}
	id, ok := h.listingID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listing, err := h.listings.Get(stdCtx, caller, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, listing)
}

// @Summary Update a food listing
// @Tags foods
// @Router /api/v1/foods/{id} [put]
func (h *FoodHandler) Update(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}
	id, ok := h.listingID(ctx)
	if !ok {
		return
	}

	var req transport.FoodUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.listings.Update(stdCtx, caller, id, listingUC.UpdateInput{
		Title:               req.Title,
		Quantity:            req.Quantity,
		Location:            req.Location,
		ExpiryTime:          req.ExpiryTime,
		Description:         req.Description,
		Image:               req.Image,
		PickupLocation:      req.PickupLocation,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete a food listing
// @Tags foods
// @Router /api/v1/foods/{id} [delete]
func (h *FoodHandler) Delete(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}
	id, ok := h.listingID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.listings.Delete(stdCtx, caller, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "food deleted successfully"})
}

// @Summary Donor dashboard with statistics
// @Tags foods
// @Router /api/v1/foods/my-posts [get]
func (h *FoodHandler) MyPosts(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dashboard, err := h.listings.MyPosts(stdCtx, caller)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dashboard)
}

// @Summary Receiver dashboard with statistics
// @Tags foods
// @Router /api/v1/foods/my-claims [get]
func (h *FoodHandler) MyClaims(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dashboard, err := h.listings.MyClaims(stdCtx, caller)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dashboard)
}

// @Summary All listings regardless of state (admin)
// @Tags foods
// @Router /api/v1/foods/all [get]
func (h *FoodHandler) ListAll(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	listings, err := h.listings.ListAll(stdCtx, caller)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(listings, map[string]int{"count": len(listings)}))
}

func (h *FoodHandler) listingID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing food id", nil))
		return "", false
	}
	return id, true
}
