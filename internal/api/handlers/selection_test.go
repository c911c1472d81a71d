package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/api/handlers"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/model"
	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/testutil"
)

type selectionFixture struct {
	handler     *handlers.SelectionHandler
	portfolioID string
}

func newSelectionFixture(t *testing.T) selectionFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	p := seedPortfolio(t, db)
	return selectionFixture{
		handler: handlers.NewSelectionHandler(
			testutil.NewTestSelectionService(t, db),
			testutil.NewTestHarvestService(t, db),
			testutil.NewTestCodec(t),
		),
		portfolioID: p.ID,
	}
}

func (f selectionFixture) params(selectionID string) map[string]string {
	return map[string]string{"uuid": f.portfolioID, "selectionId": selectionID}
}

// create starts a session with the given body and returns it.
func (f selectionFixture) create(t *testing.T, body any) model.SelectionSession {
	t.Helper()
	w := httptest.NewRecorder()
	f.handler.Create(w, testutil.NewJSONRequest(t, http.MethodPost, "/selection", body, uuidParams(f.portfolioID)))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.DecodeJSON[model.SelectionSession](t, w)
}

// call invokes a session handler and returns the recorder.
func (f selectionFixture) call(t *testing.T, fn http.HandlerFunc, selectionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	fn(w, testutil.NewJSONRequest(t, http.MethodPost, "/selection/"+selectionID, body, f.params(selectionID)))
	return w
}

func TestSelectionHandler_Lifecycle(t *testing.T) {
	t.Run("create without a body starts empty", func(t *testing.T) {
		f := newSelectionFixture(t)

		session := f.create(t, nil)

		if session.ID == "" || session.PortfolioID != f.portfolioID {
			t.Errorf("Expected a session for %s, got %+v", f.portfolioID, session)
		}
		if len(session.Selected) != 0 {
			t.Errorf("Expected empty selection, got %v", session.Selected)
		}
	})

	t.Run("toggle adds and removes a holding", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, nil)

		w := f.call(t, f.handler.Toggle, session.ID, map[string]string{"id": "ETH"})
		if got := testutil.DecodeJSON[model.SelectionSession](t, w); !slices.Equal(got.Selected, []string{"ETH"}) {
			t.Errorf("Expected [ETH], got %v", got.Selected)
		}

		w = f.call(t, f.handler.Toggle, session.ID, map[string]string{"id": "ETH"})
		if got := testutil.DecodeJSON[model.SelectionSession](t, w); len(got.Selected) != 0 {
			t.Errorf("Expected toggling twice to be identity, got %v", got.Selected)
		}
	})

	t.Run("toggle without an id is rejected", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, nil)

		w := f.call(t, f.handler.Toggle, session.ID, map[string]string{"id": " "})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("select-all, toggle-all and clear", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, map[string]any{"selected": []string{"BTC"}})
		all := []string{"BTC", "ETH", "USDC"}

		w := f.call(t, f.handler.SelectAll, session.ID, nil)
		if got := testutil.DecodeJSON[model.SelectionSession](t, w); !slices.Equal(got.Selected, all) {
			t.Errorf("Expected %v after select-all, got %v", all, got.Selected)
		}

		w = f.call(t, f.handler.ToggleAll, session.ID, nil)
		if got := testutil.DecodeJSON[model.SelectionSession](t, w); len(got.Selected) != 0 {
			t.Errorf("Expected toggle-all on a full selection to clear it, got %v", got.Selected)
		}

		w = f.call(t, f.handler.ToggleAll, session.ID, nil)
		if got := testutil.DecodeJSON[model.SelectionSession](t, w); !slices.Equal(got.Selected, all) {
			t.Errorf("Expected toggle-all on a partial selection to select all, got %v", got.Selected)
		}

		w = f.call(t, f.handler.Clear, session.ID, nil)
		if got := testutil.DecodeJSON[model.SelectionSession](t, w); len(got.Selected) != 0 {
			t.Errorf("Expected clear to empty the selection, got %v", got.Selected)
		}
	})

	t.Run("harvest is recomputed from the current selection", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, nil)

		w := f.call(t, f.handler.Harvest, session.ID, nil)
		if got := testutil.DecodeJSON[handlers.HarvestResponse](t, w); !got.Savings.IsZero() {
			t.Errorf("Expected no savings for an empty selection, got %s", got.Savings)
		}

		f.call(t, f.handler.Toggle, session.ID, map[string]string{"id": "ETH"})

		w = f.call(t, f.handler.Harvest, session.ID, nil)
		if got := testutil.DecodeJSON[handlers.HarvestResponse](t, w); !got.Savings.Equal(decimal.NewFromInt(400)) {
			t.Errorf("Expected savings 400 after selecting ETH, got %s", got.Savings)
		}
	})

	t.Run("delete ends the session", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, nil)

		if w := f.call(t, f.handler.Delete, session.ID, nil); w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", w.Code)
		}
		if w := f.call(t, f.handler.Get, session.ID, nil); w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", w.Code)
		}
	})

	t.Run("unknown sessions return 404", func(t *testing.T) {
		f := newSelectionFixture(t)

		if w := f.call(t, f.handler.Get, testutil.MakeID(), nil); w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("a session is not reachable through another portfolio", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, nil)

		w := httptest.NewRecorder()
		other := testutil.MakeID()
		f.handler.Get(w, testutil.NewRequestWithURLParams(http.MethodGet, "/", map[string]string{"uuid": other, "selectionId": session.ID}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("create returns 404 for an unknown portfolio", func(t *testing.T) {
		f := newSelectionFixture(t)
		id := testutil.MakeID()

		w := httptest.NewRecorder()
		f.handler.Create(w, testutil.NewJSONRequest(t, http.MethodPost, "/", nil, uuidParams(id)))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestSelectionHandler_Token(t *testing.T) {
	t.Run("a token restores the selection in a new session", func(t *testing.T) {
		f := newSelectionFixture(t)
		session := f.create(t, map[string]any{"selected": []string{"ETH", "USDC"}})

		w := f.call(t, f.handler.Token, session.ID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		token := testutil.DecodeJSON[handlers.TokenResponse](t, w).Token
		if token == "" {
			t.Fatal("Expected a token")
		}

		restored := f.create(t, map[string]string{"token": token})
		if restored.ID == session.ID {
			t.Error("Expected a new session")
		}
		if !slices.Equal(restored.Selected, []string{"ETH", "USDC"}) {
			t.Errorf("Expected [ETH USDC], got %v", restored.Selected)
		}
	})

	t.Run("a tampered token is rejected", func(t *testing.T) {
		f := newSelectionFixture(t)

		w := httptest.NewRecorder()
		f.handler.Create(w, testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]string{"token": "not-a-token"}, uuidParams(f.portfolioID)))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
