package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/atomicchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull  = errors.New("game is full")
	ErrNotInGame = errors.New("player not in game")
)

// Conn is the part of a websocket connection a Match writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific match. mu also serializes every write to
// a registered connection.
type MatchConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

// Match wraps a Game for network play: two seats, a clock per side and the
// websocket observers that receive the state after every change.
type Match struct {
	ID          string
	mu          sync.Mutex
	game        *Game
	players     map[Color]*ClientPlayer
	sound       string
	connections *MatchConnections
	clocks      map[Color]*Clock
}

type MatchState struct {
	Sound     string      `json:"sound"`
	Board     Snapshot    `json:"board"`
	ToMove    Color       `json:"toMove"`
	Status    Status      `json:"status"`
	LastMove  *SimpleMove `json:"lastMove"`
	Destroyed []Piece     `json:"destroyed"`
	Players   struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

func NewMatch(id string, clockTime time.Duration) *Match {
	return &Match{
		ID:   id,
		game: NewGame(),
		players: map[Color]*ClientPlayer{
			White: {Color: White},
			Black: {Color: Black},
		},
		connections: &MatchConnections{
			connections: make(map[string]Conn),
		},
		clocks: map[Color]*Clock{
			White: NewClock(clockTime),
			Black: NewClock(clockTime),
		},
	}
}

// AddPlayer seats playerID, White first. Rejoining returns the existing seat.
func (m *Match) AddPlayer(playerID string) (Color, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []Color{White, Black} {
		if m.players[c].ID == "" {
			m.players[c].ID = playerID
			if c == Black && m.game.Status() == Unfinished {
				m.clocks[White].Start()
			}
			return c, nil
		}
	}
	return "", ErrGameFull
}

func (m *Match) colorOf(playerID string) (Color, bool) {
	if playerID == "" {
		return "", false
	}
	for c, p := range m.players {
		if p.ID == playerID {
			return c, true
		}
	}
	return "", false
}

func (m *Match) IsPlayerInGame(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.colorOf(playerID)
	return ok
}

func (m *Match) canSpectate() bool {
	return m.players[White].ID == "" || m.players[Black].ID == ""
}

func (m *Match) GetState() MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state()
}

func (m *Match) state() MatchState {
	s := MatchState{
		Sound:     m.sound,
		Board:     m.game.Board(),
		ToMove:    m.game.Turn(),
		Status:    m.game.Status(),
		LastMove:  m.game.LastMove(),
		Destroyed: m.game.Destroyed(),
	}
	s.Players.White = *m.players[White]
	s.Players.White.TimeLeft = m.clocks[White].tenths()
	s.Players.Black = *m.players[Black]
	s.Players.Black.TimeLeft = m.clocks[Black].tenths()
	return s
}

// LegalMoves returns the destinations available from the algebraic square from.
func (m *Match) LegalMoves(from string) ([]Square, error) {
	sq, err := ParseSquare(from)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.game.LegalMovesFrom(sq), nil
}

func (m *Match) MakeMove(playerID string, move WSMove) error {
	from, to, err := move.squares()
	if err != nil {
		return err
	}

	m.mu.Lock()
	color, ok := m.colorOf(playerID)
	if !ok {
		m.mu.Unlock()
		return ErrNotInGame
	}
	if m.game.Status() != Unfinished {
		m.mu.Unlock()
		return ErrGameOver
	}
	if color != m.game.Turn() {
		m.mu.Unlock()
		return ErrWrongTurn
	}

	if err := m.game.AttemptMove(from, to).Err(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("%s %s: %w", move.From, move.To, err)
	}

	m.sound = "move"
	if last := m.game.LastMove(); last != nil && last.Capture {
		m.sound = "explosion"
	}
	m.clocks[color].Stop()
	if m.game.Status() == Unfinished {
		m.clocks[m.game.Turn()].Start()
	}
	state := m.state()
	m.mu.Unlock()

	m.broadcastState(state)
	return nil
}

func (m *Match) Resign(playerID string) error {
	m.mu.Lock()
	color, ok := m.colorOf(playerID)
	if !ok {
		m.mu.Unlock()
		return ErrNotInGame
	}
	if err := m.game.Resign(color); err != nil {
		m.mu.Unlock()
		return err
	}
	m.sound = ""
	m.clocks[White].Stop()
	m.clocks[Black].Stop()
	state := m.state()
	m.mu.Unlock()

	m.broadcastState(state)
	return nil
}

func (m *Match) RegisterConnection(playerID string, conn Conn) error {
	m.mu.Lock()
	_, seated := m.colorOf(playerID)
	isAuthorized := seated || m.canSpectate()
	state := m.state()
	m.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	m.connections.mu.Lock()
	if _, exists := m.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the new one
		m.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	m.connections.connections[playerID] = conn
	m.connections.mu.Unlock()
	log.Printf("match %s: registered connection for player %s", m.ID, playerID)

	m.broadcastState(state)
	return nil
}

// UnregisterConnection drops the observer only if conn is still the current one.
func (m *Match) UnregisterConnection(playerID string, conn Conn) {
	m.connections.mu.Lock()
	defer m.connections.mu.Unlock()

	if current, exists := m.connections.connections[playerID]; exists && current == conn {
		delete(m.connections.connections, playerID)
	}
}

// Send writes msg to conn while holding the lock broadcasts take, so a reply
// to one player never interleaves with a state broadcast.
func (m *Match) Send(conn Conn, msg ws.Message) error {
	m.connections.mu.Lock()
	defer m.connections.mu.Unlock()

	return conn.WriteJSON(msg)
}

// broadcastState writes state to every observer, dropping the ones that fail.
// Writes are serialized by the connections mutex.
func (m *Match) broadcastState(state MatchState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("match %s: marshal state: %v", m.ID, err)
		return
	}

	m.connections.mu.Lock()
	defer m.connections.mu.Unlock()
	for playerID, conn := range m.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Printf("match %s: send state to %s: %v", m.ID, playerID, err)
			delete(m.connections.connections, playerID)
		}
	}
}
