package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/atomicchess-backend/internal/model"
	"github.com/benbeisheim/atomicchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gm := service.NewGameManager(time.Minute, time.Hour)
	t.Cleanup(gm.Close)

	app := fiber.New()
	SetupRoutes(app, service.NewGameService(gm), websocket.Config{})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, playerID, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func createSeatedGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/game/create", "alice", "")
	if status != fiber.StatusOK {
		t.Fatalf("create: status %d, body %v", status, body)
	}
	gameID, _ := body["game_id"].(string)
	if gameID == "" {
		t.Fatalf("create: no game_id in %v", body)
	}

	for _, tt := range []struct{ player, color string }{{"alice", "white"}, {"bob", "black"}} {
		status, body := do(t, app, http.MethodPost, "/api/game/join/"+gameID, tt.player, "")
		if status != fiber.StatusOK || body["color"] != tt.color {
			t.Fatalf("join %s: status %d, body %v", tt.player, status, body)
		}
	}
	return gameID
}

func TestMissingPlayerID(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/game/create", "", "")
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 (body %v)", status, body)
	}
}

func TestPlayerIDFromQuery(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/game/create?playerId=alice", "", "")
	if status != fiber.StatusOK {
		t.Errorf("status = %d, want 200 (body %v)", status, body)
	}
}

func TestMoveOverREST(t *testing.T) {
	app := newTestApp(t)
	gameID := createSeatedGame(t, app)

	status, body := do(t, app, http.MethodPost, "/api/game/"+gameID+"/move", "alice", `{"from":"e2","to":"e4"}`)
	if status != fiber.StatusOK {
		t.Fatalf("move: status %d, body %v", status, body)
	}
	if body["toMove"] != string(model.Black) || body["status"] != string(model.Unfinished) {
		t.Errorf("state after move = %v", body)
	}

	tests := []struct {
		name   string
		player string
		body   string
		want   int
	}{
		{"wrong turn", "alice", `{"from":"d2","to":"d4"}`, fiber.StatusConflict},
		{"illegal move", "bob", `{"from":"a8","to":"a6"}`, fiber.StatusConflict},
		{"bad square", "bob", `{"from":"x9","to":"a6"}`, fiber.StatusBadRequest},
		{"not seated", "carol", `{"from":"e7","to":"e5"}`, fiber.StatusForbidden},
		{"bad body", "bob", `{"from":`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, "/api/game/"+gameID+"/move", tt.player, tt.body)
			if status != tt.want {
				t.Errorf("status = %d, want %d (body %v)", status, tt.want, body)
			}
		})
	}
}

func TestGameStateAndLegalMoves(t *testing.T) {
	app := newTestApp(t)
	gameID := createSeatedGame(t, app)

	status, body := do(t, app, http.MethodGet, "/api/game/"+gameID, "carol", "")
	if status != fiber.StatusOK || body["toMove"] != "white" {
		t.Fatalf("state: status %d, body %v", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/game/"+gameID+"/moves?from=e2", "carol", "")
	if status != fiber.StatusOK {
		t.Fatalf("moves: status %d, body %v", status, body)
	}
	if moves, _ := body["moves"].([]interface{}); len(moves) != 2 {
		t.Errorf("moves from e2 = %v, want two", body["moves"])
	}

	status, _ = do(t, app, http.MethodGet, "/api/game/does-not-exist", "carol", "")
	if status != fiber.StatusNotFound {
		t.Errorf("unknown game status = %d, want 404", status)
	}
}

func TestJoinFullGame(t *testing.T) {
	app := newTestApp(t)
	gameID := createSeatedGame(t, app)
	status, _ := do(t, app, http.MethodPost, "/api/game/join/"+gameID, "carol", "")
	if status != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", status)
	}
}

func TestResignOverREST(t *testing.T) {
	app := newTestApp(t)
	gameID := createSeatedGame(t, app)

	status, body := do(t, app, http.MethodPost, "/api/game/"+gameID+"/resign", "alice", "")
	if status != fiber.StatusOK || body["status"] != string(model.BlackWon) {
		t.Fatalf("resign: status %d, body %v", status, body)
	}
	status, _ = do(t, app, http.MethodPost, "/api/game/"+gameID+"/move", "bob", `{"from":"e7","to":"e5"}`)
	if status != fiber.StatusConflict {
		t.Errorf("move after resign status = %d, want 409", status)
	}
}

func TestJoinMatchmaking(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	if status != fiber.StatusOK || body["status"] != "queued" {
		t.Fatalf("status %d, body %v", status, body)
	}
	status, _ = do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	if status != fiber.StatusConflict {
		t.Errorf("second join status = %d, want 409", status)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/ws/game/anything", nil)
	req.Header.Set("X-Player-ID", "alice")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}
