package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/foodbridge/backend/api/transport"
	"github.com/foodbridge/backend/domain"
	"github.com/foodbridge/backend/pkg/httpcontext"
	accountUC "github.com/foodbridge/backend/usecase/account"
	claimUC "github.com/foodbridge/backend/usecase/claim"
)

type AdminHandler struct {
	baseHandler
	accounts *accountUC.UseCase
	claims   *claimUC.Engine
}

func NewAdminHandler(accounts *accountUC.UseCase, claims *claimUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		accounts:    accounts,
		claims:      claims,
	}
}

// @Summary List all users
// @Tags admin
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.accounts.ListUsers(stdCtx, caller)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(users, map[string]int{"count": len(users)}))
}

// @Summary Delete a user
// @Tags admin
// @Router /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeValidation), "missing user id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.accounts.DeleteUser(stdCtx, caller, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

// @Summary Recent claim attempts from the audit journal
// @Tags admin
// @Router /api/v1/admin/claims/activity [get]
func (h *AdminHandler) ClaimActivity(ctx *fasthttp.RequestCtx) {
	caller, ok := h.assertion(ctx)
	if !ok {
		return
	}

	limit := 100
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	records, err := h.claims.Activity(caller, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(records, map[string]int{"count": len(records)}))
}
