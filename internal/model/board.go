package model

import (
	"errors"
	"fmt"
	"strings"
)

const boardSize = 8

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Square is a (row, column) pair. Row 0 is Black's back rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < boardSize && s.Col >= 0 && s.Col < boardSize
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String returns the algebraic name of the square, "a8" for (0,0).
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, boardSize-s.Row)
}

var ErrInvalidSquare = errors.New("invalid square")

// ParseSquare maps algebraic notation (file a-h, rank 1-8) to a Square.
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{Row: boardSize - int(rank-'0'), Col: int(file - 'a')}, nil
}

type PieceID int

// noPiece marks an empty cell; arena ids start at 1.
const noPiece PieceID = 0

type Piece struct {
	ID     PieceID   `json:"id"`
	Type   PieceType `json:"type"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
}

// Board is an 8x8 grid of arena ids. Pieces live in the arena and are
// addressed by id, so a cell never aliases a piece record.
type Board struct {
	pieces []Piece
	cells  [boardSize][boardSize]PieceID
}

// Snapshot is a read-only copy of the board for rendering. Empty cells are nil.
type Snapshot [boardSize][boardSize]*Piece

func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns a board in the standard starting layout.
func NewBoard() *Board {
	b := NewEmptyBoard()
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, t := range backRank {
		b.mustPlace(t, Black, Square{Row: 0, Col: col})
		b.mustPlace(Pawn, Black, Square{Row: 1, Col: col})
		b.mustPlace(Pawn, White, Square{Row: 6, Col: col})
		b.mustPlace(t, White, Square{Row: 7, Col: col})
	}
	return b
}

func (b *Board) mustPlace(t PieceType, c Color, sq Square) {
	if _, err := b.Place(t, c, sq); err != nil {
		panic(err)
	}
}

// Place creates a new piece on an empty square.
func (b *Board) Place(t PieceType, c Color, sq Square) (PieceID, error) {
	if !sq.InBounds() {
		return noPiece, fmt.Errorf("%w: %s", ErrInvalidSquare, sq)
	}
	if b.cells[sq.Row][sq.Col] != noPiece {
		return noPiece, fmt.Errorf("square %s is occupied", sq)
	}
	id := PieceID(len(b.pieces) + 1)
	b.pieces = append(b.pieces, Piece{ID: id, Type: t, Color: c, Square: sq})
	b.cells[sq.Row][sq.Col] = id
	return id, nil
}

// At returns the occupant of sq. Out of bounds squares are empty.
func (b *Board) At(sq Square) (Piece, bool) {
	if !sq.InBounds() {
		return Piece{}, false
	}
	id := b.cells[sq.Row][sq.Col]
	if id == noPiece {
		return Piece{}, false
	}
	return b.pieces[id-1], true
}

func (b *Board) isEmpty(sq Square) bool {
	_, ok := b.At(sq)
	return !ok
}

// move relocates the occupant of from to to, overwriting whatever was there.
func (b *Board) move(from, to Square) {
	id := b.cells[from.Row][from.Col]
	b.cells[from.Row][from.Col] = noPiece
	b.cells[to.Row][to.Col] = id
	b.pieces[id-1].Square = to
}

// clear empties sq and returns the removed piece, if any.
func (b *Board) clear(sq Square) (Piece, bool) {
	p, ok := b.At(sq)
	if ok {
		b.cells[sq.Row][sq.Col] = noPiece
	}
	return p, ok
}

// Pieces returns the pieces still on the board in row-major order.
func (b *Board) Pieces() []Piece {
	var out []Piece
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p, ok := b.At(Square{Row: row, Col: col}); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *Board) hasKing(c Color) bool {
	for _, p := range b.Pieces() {
		if p.Type == King && p.Color == c {
			return true
		}
	}
	return false
}

func (b *Board) Snapshot() Snapshot {
	var s Snapshot
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if p, ok := b.At(Square{Row: row, Col: col}); ok {
				s[row][col] = &p
			}
		}
	}
	return s
}

// Check verifies that every occupied cell points at a valid piece whose
// recorded square is that cell, and that no piece occupies two cells.
func (b *Board) Check() error {
	seen := make(map[PieceID]Square)
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			id := b.cells[row][col]
			if id == noPiece {
				continue
			}
			sq := Square{Row: row, Col: col}
			if id < 0 || int(id) > len(b.pieces) {
				return fmt.Errorf("cell %s holds unknown piece %d", sq, id)
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("piece %d on both %s and %s", id, prev, sq)
			}
			seen[id] = sq
			if got := b.pieces[id-1].Square; got != sq {
				return fmt.Errorf("piece %d recorded on %s but found on %s", id, got, sq)
			}
		}
	}
	return nil
}
