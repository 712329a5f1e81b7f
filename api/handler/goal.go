package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/yearpeer/backend/api/transport"
	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/pkg/httpcontext"
	goalUC "github.com/yearpeer/backend/usecase/goal"
)

type GoalHandler struct {
	baseHandler
	uc *goalUC.UseCase
}

func NewGoalHandler(uc *goalUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, devMode bool) *GoalHandler {
	return &GoalHandler{
		baseHandler: newBaseHandler(adapter, logger, devMode),
		uc:          uc,
	}
}

// @Summary List goals
// @Tags goals
// @Router /api/v1/goals [get]
func (h *GoalHandler) ListGoals(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	year := parseInt(string(ctx.QueryArgs().Peek("year")), 0)
	start, end, ok := h.optionalRange(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goals, err := h.uc.List(stdCtx, userID, year, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goals)
}

// @Summary Get goal
// @Tags goals
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) GetGoal(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing goal id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	goal, err := h.uc.Get(stdCtx, id, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, goal)
}

// @Summary Create goal
// @Tags goals
// @Router /api/v1/goals [post]
func (h *GoalHandler) CreateGoal(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	goal, ok := h.parseGoal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, userID, goal)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update goal
// @Tags goals
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) UpdateGoal(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing goal id")
		return
	}
	goal, ok := h.parseGoal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, userID, goal)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete goal
// @Tags goals
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing goal id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *GoalHandler) parseGoal(ctx *fasthttp.RequestCtx) (*domain.Goal, bool) {
	var req transport.GoalRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, false
	}

	start, err := transport.ParseDate(req.StartDate)
	if err != nil {
		h.respondInvalid(ctx, "invalid startDate")
		return nil, false
	}
	end, err := transport.ParseDate(req.EndDate)
	if err != nil {
		h.respondInvalid(ctx, "invalid endDate")
		return nil, false
	}

	return &domain.Goal{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Color:       req.Color,
		Impact:      req.Impact,
	}, true
}

// optionalRange parses startDate/endDate query args; both or neither must be set.
func (h *GoalHandler) optionalRange(ctx *fasthttp.RequestCtx) (time.Time, time.Time, bool) {
	rawStart := string(ctx.QueryArgs().Peek("startDate"))
	rawEnd := string(ctx.QueryArgs().Peek("endDate"))
	if rawStart == "" && rawEnd == "" {
		return time.Time{}, time.Time{}, true
	}

	start, err := transport.ParseDate(rawStart)
	if err != nil {
		h.respondInvalid(ctx, "invalid startDate")
		return time.Time{}, time.Time{}, false
	}
	end, err := transport.ParseDate(rawEnd)
	if err != nil {
		h.respondInvalid(ctx, "invalid endDate")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
