package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"kaamos/internal/app/auth"
	"kaamos/internal/app/journal"
	"kaamos/internal/app/ports"
	"kaamos/internal/app/session"
	"kaamos/internal/app/shop"
	"kaamos/internal/domain/survival"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const slotIDHeader = "X-Slot-ID"
const slotKeyHeader = "X-Slot-Key"

type Handler struct {
	RegisterUC auth.RegisterUseCase
	AuthUC     auth.VerifyUseCase
	RotateUC   auth.RotateUseCase
	SessionUC  session.UseCase
	JournalUC  journal.UseCase
	ShopUC     shop.UseCase
	KPI        kpiSnapshotProvider
	// CORSOrigin pins Access-Control-Allow-Origin; empty allows any origin.
	CORSOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigin))

	g := s.Group("/api/game")
	g.POST("/new", h.register)
	g.POST("/rotate-key", h.rotateKey)
	g.POST("/start", h.start)
	g.GET("/continue", h.continueGame)
	g.GET("/status", h.status)
	g.POST("/choose", h.choose)
	g.POST("/advance", h.advance)
	g.POST("/buy", h.buy)
	g.POST("/use", h.use)
	g.POST("/flag", h.setFlag)
	g.POST("/adjust", h.adjust)
	g.POST("/spend", h.spend)
	g.POST("/reset", h.reset)
	g.GET("/journal", h.journal)

	s.GET("/api/shop/items", h.shopItems)
	s.GET("/api/shop/items/:id", h.shopItem)
	s.GET("/ops/kpi", h.kpi)
}

type startRequest struct {
	Difficulty string `json:"difficulty"`
	TrialRun   bool   `json:"trial_run"`
}

type chooseRequest struct {
	ChoiceIndex *int `json:"choice_index"`
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

type flagRequest struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

type adjustRequest struct {
	Delta survival.Delta `json:"delta"`
	Note  string         `json:"note,omitempty"`
}

type spendRequest struct {
	Amount        float64 `json:"amount"`
	Note          string  `json:"note,omitempty"`
	ExhaustedNote string  `json:"exhausted_note,omitempty"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

// rotateKey authenticates with the current key and answers with its
// replacement; the same headers stop working afterwards.
func (h Handler) rotateKey(c context.Context, ctx *app.RequestContext) {
	req, err := slotHeaders(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.RotateUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body startRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Start(c, session.StartRequest{
		SlotID:     slotID,
		Difficulty: survival.Difficulty(strings.ToUpper(strings.TrimSpace(body.Difficulty))),
		TrialRun:   body.TrialRun,
	})
	writeResponse(ctx, resp, err)
}

func (h Handler) continueGame(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.SessionUC.Continue(c, session.SlotRequest{SlotID: slotID})
	writeResponse(ctx, resp, err)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.SessionUC.Status(c, session.SlotRequest{SlotID: slotID})
	writeResponse(ctx, resp, err)
}

func (h Handler) choose(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body chooseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Choose(c, session.ChooseRequest{SlotID: slotID, ChoiceIndex: body.ChoiceIndex})
	writeResponse(ctx, resp, err)
}

func (h Handler) advance(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.SessionUC.Advance(c, session.SlotRequest{SlotID: slotID})
	writeResponse(ctx, resp, err)
}

func (h Handler) buy(c context.Context, ctx *app.RequestContext) {
	h.itemCommand(c, ctx, h.SessionUC.Buy)
}

func (h Handler) use(c context.Context, ctx *app.RequestContext) {
	h.itemCommand(c, ctx, h.SessionUC.Use)
}

func (h Handler) itemCommand(c context.Context, ctx *app.RequestContext, run func(context.Context, session.ItemRequest) (session.Response, error)) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body itemRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := run(c, session.ItemRequest{SlotID: slotID, ItemID: body.ItemID})
	writeResponse(ctx, resp, err)
}

func (h Handler) setFlag(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body flagRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.SetFlag(c, session.FlagRequest{SlotID: slotID, Flag: survival.Flag(body.Flag), Value: body.Value})
	writeResponse(ctx, resp, err)
}

func (h Handler) adjust(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body adjustRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Adjust(c, session.AdjustRequest{SlotID: slotID, Delta: body.Delta, Note: body.Note})
	writeResponse(ctx, resp, err)
}

func (h Handler) spend(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body spendRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Spend(c, session.SpendRequest{
		SlotID:        slotID,
		Amount:        body.Amount,
		Note:          body.Note,
		ExhaustedNote: body.ExhaustedNote,
	})
	writeResponse(ctx, resp, err)
}

func (h Handler) reset(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := h.SessionUC.Reset(c, session.SlotRequest{SlotID: slotID}); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) journal(c context.Context, ctx *app.RequestContext) {
	slotID, err := h.requireAuthenticatedSlot(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	fromDay, _ := strconv.Atoi(string(ctx.Query("from_day")))
	toDay, _ := strconv.Atoi(string(ctx.Query("to_day")))
	resp, err := h.JournalUC.Execute(c, journal.Request{
		SlotID:  slotID,
		Limit:   limit,
		FromDay: fromDay,
		ToDay:   toDay,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) shopItems(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ShopUC.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) shopItem(c context.Context, ctx *app.RequestContext) {
	item, err := h.ShopUC.Item(c, ctx.Param("id"))
	if err != nil {
		var unknown *shop.UnknownItemError
		if errors.As(err, &unknown) {
			ctx.JSON(consts.StatusNotFound, map[string]any{
				"error": map[string]any{
					"code":        "unknown_item",
					"message":     unknown.Error(),
					"suggestions": unknown.Suggestions,
				},
			})
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, item)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingSlotIDHeader = errors.New("missing x-slot-id header")
var ErrMissingSlotKeyHeader = errors.New("missing x-slot-key header")
var ErrMissingSlotCredentials = errors.New("missing slot credentials")

func slotHeaders(ctx *app.RequestContext) (auth.VerifyRequest, error) {
	req := auth.VerifyRequest{
		SlotID:  strings.TrimSpace(string(ctx.GetHeader(slotIDHeader))),
		SlotKey: strings.TrimSpace(string(ctx.GetHeader(slotKeyHeader))),
	}
	switch {
	case req.SlotID == "" && req.SlotKey == "":
		return req, ErrMissingSlotCredentials
	case req.SlotID == "":
		return req, ErrMissingSlotIDHeader
	case req.SlotKey == "":
		return req, ErrMissingSlotKeyHeader
	}
	return req, nil
}

func (h Handler) requireAuthenticatedSlot(c context.Context, ctx *app.RequestContext) (string, error) {
	req, err := slotHeaders(ctx)
	if err != nil {
		return "", err
	}
	if err := h.AuthUC.Execute(c, req); err != nil {
		return "", err
	}
	return req.SlotID, nil
}

// writeResponse reports a refused command (buy with no money, use of an
// item not carried) as 422 with the state still attached.
func writeResponse(ctx *app.RequestContext, resp session.Response, err error) {
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !resp.Success {
		ctx.JSON(consts.StatusUnprocessableEntity, resp)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingSlotCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_slot_credentials", err.Error())
	case errors.Is(err, ErrMissingSlotIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_slot_id", err.Error())
	case errors.Is(err, ErrMissingSlotKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_slot_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_slot_credentials", err.Error())
	case errors.Is(err, session.ErrNoSave):
		writeErrorBody(ctx, consts.StatusNotFound, "no_save", err.Error())
	case errors.Is(err, session.ErrGameOver):
		writeErrorBody(ctx, consts.StatusConflict, "game_over", err.Error())
	case errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, journal.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
