package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	metricsinmem "kaamos/internal/adapter/metrics/inmemory"
	"kaamos/internal/adapter/repo/memory"
	"kaamos/internal/app/auth"
	"kaamos/internal/app/game"
	"kaamos/internal/app/journal"
	"kaamos/internal/app/ports"
	"kaamos/internal/app/session"
	"kaamos/internal/app/shop"
	"kaamos/internal/domain/content"
	"kaamos/internal/domain/rng"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

type testServer struct {
	h   Handler
	kpi *metricsinmem.Recorder
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	catalog, err := content.LoadDefault()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	saves := memory.NewSaveRepo(store)
	creds := memory.NewSlotCredentialRepo(store)
	kpi := metricsinmem.NewRecorder()
	now := func() time.Time { return time.Unix(1700000000, 0).UTC() }

	return testServer{
		kpi: kpi,
		h: Handler{
			RegisterUC: auth.RegisterUseCase{Credentials: creds, TxManager: tx, Now: now},
			AuthUC:     auth.VerifyUseCase{Credentials: creds},
			RotateUC:   auth.RotateUseCase{Credentials: creds, TxManager: tx, Now: now},
			SessionUC: session.UseCase{
				Engine:    game.New(catalog, rng.New(7), nil, logger),
				Saves:     saves,
				TxManager: tx,
				Metrics:   kpi,
				Logger:    logger,
				Now:       now,
			},
			JournalUC: journal.UseCase{Saves: saves, TxManager: tx},
			ShopUC:    shop.UseCase{Catalog: catalog},
			KPI:       kpi,
		},
	}
}

type slotCreds struct {
	id  string
	key string
}

func (s testServer) register(t *testing.T) slotCreds {
	t.Helper()
	ctx := &app.RequestContext{}
	s.h.register(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("register status mismatch: got=%d want=%d", got, want)
	}
	var body auth.RegisterResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal register: %v", err)
	}
	return slotCreds{id: body.SlotID, key: body.SlotKey}
}

func authed(creds slotCreds, body string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(slotIDHeader, creds.id)
	ctx.Request.Header.Set(slotKeyHeader, creds.key)
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v (%s)", err, string(ctx.Response.Body()))
	}
	return body
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	errObj, _ := decodeBody(t, ctx)["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestRequireAuthenticatedSlot_FromHeaders(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)

	slotID, err := s.h.requireAuthenticatedSlot(context.Background(), authed(creds, ""))
	if err != nil {
		t.Fatalf("requireAuthenticatedSlot error: %v", err)
	}
	if slotID != creds.id {
		t.Fatalf("unexpected slot id: %q", slotID)
	}
}

func TestRequireAuthenticatedSlot_MissingHeaders(t *testing.T) {
	h := Handler{}

	if _, err := h.requireAuthenticatedSlot(context.Background(), &app.RequestContext{}); err != ErrMissingSlotCredentials {
		t.Fatalf("expected ErrMissingSlotCredentials, got %v", err)
	}

	ctx := &app.RequestContext{}
	ctx.Request.Header.Set(slotIDHeader, "slot-1")
	if _, err := h.requireAuthenticatedSlot(context.Background(), ctx); err != ErrMissingSlotKeyHeader {
		t.Fatalf("expected ErrMissingSlotKeyHeader, got %v", err)
	}

	ctx = &app.RequestContext{}
	ctx.Request.Header.Set(slotKeyHeader, "k")
	if _, err := h.requireAuthenticatedSlot(context.Background(), ctx); err != ErrMissingSlotIDHeader {
		t.Fatalf("expected ErrMissingSlotIDHeader, got %v", err)
	}
}

func TestRequireAuthenticatedSlot_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)
	creds.key = "wrong"

	ctx := authed(creds, "")
	s.h.status(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnauthorized; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "invalid_slot_credentials"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestRotateKey_OldKeyStopsWorking(t *testing.T) {
	s := newTestServer(t)
	old := s.register(t)

	ctx := authed(old, "")
	s.h.rotateKey(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("rotate status mismatch: got=%d want=%d", got, want)
	}
	var rotated auth.RegisterResponse
	if err := json.Unmarshal(ctx.Response.Body(), &rotated); err != nil {
		t.Fatalf("unmarshal rotate: %v", err)
	}
	if rotated.SlotID != old.id || rotated.SlotKey == old.key {
		t.Fatalf("unexpected rotate response %+v", rotated)
	}

	ctx = authed(old, "")
	s.h.status(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusUnauthorized; got != want {
		t.Fatalf("old key status mismatch: got=%d want=%d", got, want)
	}

	ctx = authed(slotCreds{id: rotated.SlotID, key: rotated.SlotKey}, "")
	s.h.status(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("new key should authenticate (no save yet): got=%d want=%d", got, want)
	}
}

func TestRotateKey_MissingHeaders(t *testing.T) {
	s := newTestServer(t)
	ctx := &app.RequestContext{}
	s.h.rotateKey(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestStatus_NoSaveIsNotFound(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)

	ctx := authed(creds, "")
	s.h.status(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "no_save"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestStartChooseAdvanceFlow(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)

	ctx := authed(creds, `{"difficulty":"easy"}`)
	s.h.start(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("start status mismatch: got=%d want=%d (%s)", got, want, string(ctx.Response.Body()))
	}
	body := decodeBody(t, ctx)
	if body["slot_id"] != creds.id {
		t.Fatalf("expected slot id %q, got %v", creds.id, body["slot_id"])
	}
	if _, ok := body["event"].(map[string]any); !ok {
		t.Fatalf("expected an event after start: %s", string(ctx.Response.Body()))
	}
	state, _ := body["state"].(map[string]any)
	meta, _ := state["meta"].(map[string]any)
	if meta["difficulty"] != "EASY" {
		t.Fatalf("expected EASY difficulty, got %v", meta["difficulty"])
	}

	ctx = authed(creds, `{"choice_index":0}`)
	s.h.choose(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("choose status mismatch: got=%d want=%d (%s)", got, want, string(ctx.Response.Body()))
	}
	body = decodeBody(t, ctx)
	state, _ = body["state"].(map[string]any)
	timeState, _ := state["time"].(map[string]any)
	if timeState["phase"] != "NIGHT" {
		t.Fatalf("expected NIGHT after a day choice, got %v", timeState["phase"])
	}

	ctx = authed(creds, "")
	s.h.advance(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("advance status mismatch: got=%d want=%d", got, want)
	}

	ctx = authed(creds, "")
	s.h.journal(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("journal status mismatch: got=%d want=%d", got, want)
	}
	journalBody := decodeBody(t, ctx)
	history, _ := journalBody["history"].([]any)
	if len(history) != 1 {
		t.Fatalf("expected the chosen day event in history, got %v", history)
	}
	entries, _ := journalBody["entries"].([]any)
	if len(entries) == 0 {
		t.Fatalf("expected log entries after a choice")
	}

	snap := s.kpi.Snapshot()
	if snap.ByOperation[session.OpStart] != 1 || snap.ByOperation[session.OpChoose] != 1 {
		t.Fatalf("expected start/choose recorded, got %+v", snap.ByOperation)
	}
}

func TestStart_RejectsUnknownDifficulty(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)

	ctx := authed(creds, `{"difficulty":"nightmare"}`)
	s.h.start(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestStart_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)

	ctx := authed(creds, `{"difficulty":`)
	s.h.start(context.Background(), ctx)

	if got, want := errorCode(t, ctx), "invalid_json"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestBuy_RefusalIsUnprocessableWithState(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)
	s.h.start(context.Background(), authed(creds, `{}`))

	ctx := authed(creds, `{"item_id":"no_such_item"}`)
	s.h.buy(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusUnprocessableEntity; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	body := decodeBody(t, ctx)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if _, ok := body["state"]; !ok {
		t.Fatalf("expected state in refusal body")
	}
}

func TestBuy_OK(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)
	s.h.start(context.Background(), authed(creds, `{}`))

	ctx := authed(creds, `{"item_id":"coffee"}`)
	s.h.buy(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d (%s)", got, want, string(ctx.Response.Body()))
	}
	state, _ := decodeBody(t, ctx)["state"].(map[string]any)
	inv, _ := state["inventory"].([]any)
	if len(inv) != 1 || inv[0] != "coffee" {
		t.Fatalf("expected coffee in inventory, got %v", inv)
	}
}

func TestAdjust_EndingThenGameOver(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)
	s.h.start(context.Background(), authed(creds, `{}`))

	ctx := authed(creds, `{"delta":{"money":-1000}}`)
	s.h.adjust(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("adjust status mismatch: got=%d want=%d", got, want)
	}
	ending, _ := decodeBody(t, ctx)["ending"].(map[string]any)
	if ending["id"] != "bankrupt" {
		t.Fatalf("expected bankrupt ending, got %v", ending)
	}

	ctx = authed(creds, "")
	s.h.advance(context.Background(), ctx)
	if got, want := errorCode(t, ctx), "game_over"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
	if s.kpi.Snapshot().Endings["bankrupt"] != 1 {
		t.Fatalf("expected bankrupt ending recorded")
	}
}

func TestAdjust_UnknownResourceIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)
	s.h.start(context.Background(), authed(creds, `{}`))

	ctx := authed(creds, `{"delta":{"karma":5}}`)
	s.h.adjust(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestReset_ClearsSave(t *testing.T) {
	s := newTestServer(t)
	creds := s.register(t)
	s.h.start(context.Background(), authed(creds, `{}`))

	ctx := authed(creds, "")
	s.h.reset(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNoContent; got != want {
		t.Fatalf("reset status mismatch: got=%d want=%d", got, want)
	}

	ctx = authed(creds, "")
	s.h.continueGame(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("continue status mismatch: got=%d want=%d", got, want)
	}
}

func TestShopItems_OK(t *testing.T) {
	s := newTestServer(t)
	ctx := &app.RequestContext{}

	s.h.shopItems(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	items, _ := decodeBody(t, ctx)["items"].([]any)
	if len(items) == 0 {
		t.Fatalf("expected shop items")
	}
}

func TestShopItem_UnknownSuggests(t *testing.T) {
	s := newTestServer(t)
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "cofee"}}

	s.h.shopItem(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	errObj, _ := decodeBody(t, ctx)["error"].(map[string]any)
	suggestions, _ := errObj["suggestions"].([]any)
	if len(suggestions) == 0 || suggestions[0] != "coffee" {
		t.Fatalf("expected coffee suggestion, got %v", suggestions)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{session.ErrGameOver, consts.StatusConflict, "game_over"},
		{session.ErrNoSave, consts.StatusNotFound, "no_save"},
		{session.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{ports.ErrConflict, consts.StatusConflict, "conflict"},
		{errors.New("boom"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status mismatch: got=%d want=%d", tc.err, got, tc.status)
		}
		if got := errorCode(t, ctx); got != tc.code {
			t.Fatalf("%v: code mismatch: got=%q want=%q", tc.err, got, tc.code)
		}
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}
