// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/atomicchess-backend/internal/model"
	"github.com/benbeisheim/atomicchess-backend/internal/ws"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

type GameManager struct {
	games            map[string]*model.Match
	queue            *model.Queue
	matchingChannels map[string]chan string
	clockTime        time.Duration
	mu               sync.RWMutex
	done             chan struct{}
	closeOnce        sync.Once
}

// NewGameManager starts the matchmaking processor; Close stops it.
func NewGameManager(clockTime, matchmakingInterval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Match),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		clockTime:        clockTime,
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking(matchmakingInterval)

	return gm
}

func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// remove from the map first so nothing else writes to it
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

// CancelMatchmaking takes the player out of the queue and drops their channel
// in one step, so a matchmaking tick never pairs a player who has left.
func (gm *GameManager) CancelMatchmaking(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	gm.queue.Remove(playerID)
	// the creator of the channel closes it
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.pairQueuedPlayers()
		}
	}
}

func (gm *GameManager) pairQueuedPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		match := model.NewMatch(gameID, gm.clockTime)
		p1Color, err := match.AddPlayer(player1.ID)
		if err != nil {
			log.Printf("matchmaking: add player %s: %v", player1.ID, err)
			continue
		}
		p2Color, err := match.AddPlayer(player2.ID)
		if err != nil {
			log.Printf("matchmaking: add player %s: %v", player2.ID, err)
			continue
		}
		gm.games[gameID] = match

		if !gm.notifyMatchFound(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color}) ||
			!gm.notifyMatchFound(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color}) {
			log.Printf("matchmaking: game %s created but not every player was notified", gameID)
		}
	}
}

// notifyMatchFound sends event on the player's channel and retires the channel.
func (gm *GameManager) notifyMatchFound(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- mustJSON(event):
		return true
	default:
		log.Printf("matchmaking: channel for player %s is not ready", playerID)
		return false
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}

	gm.games[gameID] = model.NewMatch(gameID, gm.clockTime)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Match, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	match, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	return match, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return match.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) GetGameState(gameID string) (model.MatchState, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return model.MatchState{}, err
	}
	return match.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from string) ([]model.Square, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return match.LegalMoves(from)
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.MakeMove(playerID, move)
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.Resign(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	match.UnregisterConnection(playerID, conn)
}

// SendToConnection writes msg to a game connection without racing the
// match's state broadcasts.
func (gm *GameManager) SendToConnection(gameID string, conn model.Conn, msg ws.Message) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.Send(conn, msg)
}
