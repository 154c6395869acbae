package model

import (
	"errors"
)

type Status string

const (
	Unfinished Status = "UNFINISHED"
	WhiteWon   Status = "WHITE_WON"
	BlackWon   Status = "BLACK_WON"
)

type MoveResult int

const (
	MoveOK MoveResult = iota
	WrongTurn
	IllegalMove
	GameOver
)

func (r MoveResult) String() string {
	switch r {
	case MoveOK:
		return "ok"
	case WrongTurn:
		return "wrong turn"
	case IllegalMove:
		return "illegal move"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

var (
	ErrWrongTurn   = errors.New("wrong turn")
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
)

// Err maps the result to its sentinel error, nil for MoveOK.
func (r MoveResult) Err() error {
	switch r {
	case MoveOK:
		return nil
	case WrongTurn:
		return ErrWrongTurn
	case GameOver:
		return ErrGameOver
	default:
		return ErrIllegalMove
	}
}

type SimpleMove struct {
	From    Square `json:"from"`
	To      Square `json:"to"`
	Capture bool   `json:"capture"`
}

// Game is one atomic chess session. It is the only writer of its board and
// is not safe for concurrent use; Match serializes access for network play.
type Game struct {
	board     *Board
	turn      Color
	status    Status
	lastMove  *SimpleMove
	destroyed []Piece
}

func NewGame() *Game {
	return NewGameFromBoard(NewBoard(), White)
}

// NewGameFromBoard starts a game from an arbitrary position. The status is
// derived from the kings present on b.
func NewGameFromBoard(b *Board, turn Color) *Game {
	g := &Game{board: b, turn: turn}
	g.updateStatus()
	return g
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Board() Snapshot {
	return g.board.Snapshot()
}

func (g *Game) LastMove() *SimpleMove {
	if g.lastMove == nil {
		return nil
	}
	m := *g.lastMove
	return &m
}

// Destroyed returns every piece removed by explosions, in removal order.
func (g *Game) Destroyed() []Piece {
	return append([]Piece(nil), g.destroyed...)
}

// LegalMovesFrom returns the pseudo-legal destinations of the piece on sq.
func (g *Game) LegalMovesFrom(sq Square) []Square {
	p, ok := g.board.At(sq)
	if !ok {
		return []Square{}
	}
	return LegalDestinations(p, g.board)
}

// AttemptMove validates and executes one move. The board is unchanged unless
// the result is MoveOK.
func (g *Game) AttemptMove(from, to Square) MoveResult {
	if g.status != Unfinished {
		return GameOver
	}
	piece, ok := g.board.At(from)
	if !ok || !to.InBounds() {
		return IllegalMove
	}
	if piece.Color != g.turn {
		return WrongTurn
	}
	if !containsSquare(LegalDestinations(piece, g.board), to) {
		return IllegalMove
	}

	captured, capture := g.board.clear(to)
	if capture {
		g.destroyed = append(g.destroyed, captured)
	}
	g.board.move(from, to)
	if capture {
		g.explode(to)
	}
	g.lastMove = &SimpleMove{From: from, To: to, Capture: capture}

	g.updateStatus()
	if g.status == Unfinished {
		g.turn = g.turn.Opponent()
	}
	return MoveOK
}

// explode clears the 3x3 block centred on sq, capturing piece included.
func (g *Game) explode(sq Square) {
	for dRow := -1; dRow <= 1; dRow++ {
		for dCol := -1; dCol <= 1; dCol++ {
			cell := sq.offset(dRow, dCol)
			if !cell.InBounds() {
				continue
			}
			if p, ok := g.board.clear(cell); ok {
				g.destroyed = append(g.destroyed, p)
			}
		}
	}
}

// updateStatus checks White's king first, so a blast that removes both kings
// is a Black win.
func (g *Game) updateStatus() {
	switch {
	case !g.board.hasKing(White):
		g.status = BlackWon
	case !g.board.hasKing(Black):
		g.status = WhiteWon
	default:
		g.status = Unfinished
	}
}

// Resign forfeits the game for c.
func (g *Game) Resign(c Color) error {
	if g.status != Unfinished {
		return ErrGameOver
	}
	if c == White {
		g.status = BlackWon
	} else {
		g.status = WhiteWon
	}
	return nil
}
