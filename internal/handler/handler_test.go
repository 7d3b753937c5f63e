package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseopen-dev/kazino/internal/casebox"
	"github.com/caseopen-dev/kazino/internal/catalog"
	"github.com/caseopen-dev/kazino/internal/concurrency"
	"github.com/caseopen-dev/kazino/internal/economy"
	"github.com/caseopen-dev/kazino/internal/feed"
	"github.com/caseopen-dev/kazino/internal/giveaway"
	"github.com/caseopen-dev/kazino/internal/upgrade"
	"github.com/caseopen-dev/kazino/internal/user"
)

const testConfig = `
CASE: Test Case = 100
WEAPON: Rusty Pistol | false | consumer | 40 | Test Case
WEAPON: Dragon Rifle | false | covert | 2000 | Test Case
WEAPON: Gloves E | false | extraordinary | 3000 | Test Case
`

// testAPI wires the full route tree over the in-memory store.
func testAPI(t *testing.T) (*chi.Mux, *user.FakeStore) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.env")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)

	store := user.NewFakeStore()
	locks := concurrency.NewLockManager()
	liveFeed := feed.New()

	userService := user.NewService(store, locks, 500)
	caseboxService := casebox.NewService(store, cat, locks, liveFeed)
	upgradeService := upgrade.NewService(store, cat, locks, liveFeed, 0.05)
	economyService := economy.NewService(store, locks, 100, 20*time.Minute)
	giveawayService := giveaway.NewService(store.GiveawayRepo(), cat, locks)

	r := chi.NewRouter()
	r.Post("/auth/login", HandleLogin(userService))
	r.Get("/leaderboard", HandleLeaderboard(userService))
	r.Get("/feed", HandleFeed(liveFeed))
	r.Get("/cases", HandleListCases(cat))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(userService))
		r.Get("/me", HandleMe(userService))
		r.Post("/cases/open", HandleOpenCase(caseboxService))
		r.Post("/upgrade/targets", HandleUpgradeTargets(upgradeService))
		r.Post("/upgrade/resolve", HandleUpgradeResolve(upgradeService))
		r.Post("/items/sell", HandleSellItem(economyService))
		r.Post("/bonus/claim", HandleClaimBonus(economyService))
		r.Get("/giveaways", HandleListGiveaways(giveawayService))
		r.Post("/giveaways/{id}/join", HandleJoinGiveaway(giveawayService))
		r.Get("/giveaways/notifications", HandleGiveawayNotifications(giveawayService))
	})

	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, nickname string) (string, LoginResponse) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", "", LoginRequest{Nickname: nickname})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp
}

func TestHandleLogin(t *testing.T) {
	r, _ := testAPI(t)

	_, resp := login(t, r, "player1")
	assert.Equal(t, "player1", resp.User.Nickname)
	assert.Equal(t, int64(500), resp.User.Balance)

	// empty nickname is rejected by validation
	w := doJSON(t, r, http.MethodPost, "/auth/login", "", LoginRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	r, _ := testAPI(t)

	w := doJSON(t, r, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := login(t, r, "player1")
	w = doJSON(t, r, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleOpenCase(t *testing.T) {
	r, _ := testAPI(t)
	token, _ := login(t, r, "player1")

	w := doJSON(t, r, http.MethodPost, "/cases/open", token, OpenCaseRequest{CaseID: "test-case"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res casebox.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.NotEmpty(t, res.Drop.Name)
	assert.Equal(t, int64(400), res.Snapshot.Balance)
	assert.Len(t, res.Snapshot.Inventory, 1)

	// the drop shows up in the live feed
	w = doJSON(t, r, http.MethodGet, "/feed", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "player1", events[0]["nickname"])

	// unknown case
	w = doJSON(t, r, http.MethodPost, "/cases/open", token, OpenCaseRequest{CaseID: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing body field
	w = doJSON(t, r, http.MethodPost, "/cases/open", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSellAndClaim(t *testing.T) {
	r, _ := testAPI(t)
	token, _ := login(t, r, "player1")

	w := doJSON(t, r, http.MethodPost, "/cases/open", token, OpenCaseRequest{CaseID: "test-case"})
	require.Equal(t, http.StatusOK, w.Code)
	var opened casebox.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opened))

	w = doJSON(t, r, http.MethodPost, "/items/sell", token, SellItemRequest{EntryID: opened.Drop.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sold economy.SellResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sold))
	assert.Equal(t, opened.Drop.Price, sold.Credited)

	// selling twice is rejected
	w = doJSON(t, r, http.MethodPost, "/items/sell", token, SellItemRequest{EntryID: opened.Drop.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// first claim succeeds, the next is throttled
	w = doJSON(t, r, http.MethodPost, "/bonus/claim", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/bonus/claim", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHandleUpgrade(t *testing.T) {
	r, store := testAPI(t)
	token, _ := login(t, r, "player1")

	w := doJSON(t, r, http.MethodPost, "/cases/open", token, OpenCaseRequest{CaseID: "test-case"})
	require.Equal(t, http.StatusOK, w.Code)
	var opened casebox.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&opened))

	w = doJSON(t, r, http.MethodPost, "/upgrade/targets", token, UpgradeTargetsRequest{
		EntryIDs: []string{opened.Drop.ID},
		Chance:   25,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var targets upgrade.Targets
	require.NoError(t, json.NewDecoder(w.Body).Decode(&targets))
	assert.Equal(t, opened.Drop.Price, targets.Value)

	// a chance outside the whitelist never reaches the service
	w = doJSON(t, r, http.MethodPost, "/upgrade/targets", token, UpgradeTargetsRequest{
		EntryIDs: []string{opened.Drop.ID},
		Chance:   60,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	if len(targets.Items) > 0 {
		w = doJSON(t, r, http.MethodPost, "/upgrade/resolve", token, UpgradeResolveRequest{
			EntryIDs: []string{opened.Drop.ID},
			TargetID: targets.Items[0].ID,
			Chance:   25,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// stake consumed either way
		e, err := store.GetEntryByID(context.Background(), opened.Drop.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "owned", string(e.Status))
	}
}

func TestHandleGiveaways(t *testing.T) {
	r, _ := testAPI(t)
	token, _ := login(t, r, "player1")

	w := doJSON(t, r, http.MethodGet, "/giveaways", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var infos []giveaway.Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&infos))
	require.Len(t, infos, 3)

	// cheapest tier costs 199, starting balance covers it
	w = doJSON(t, r, http.MethodPost, "/giveaways/"+infos[0].ID+"/join", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/giveaways/"+infos[0].ID+"/join", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/giveaways/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleLeaderboardAndCases(t *testing.T) {
	r, _ := testAPI(t)
	login(t, r, "player1")
	login(t, r, "player2")

	w := doJSON(t, r, http.MethodGet, "/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rows))
	assert.Len(t, rows, 2)

	w = doJSON(t, r, http.MethodGet, "/cases", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
