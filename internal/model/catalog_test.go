package model

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func squareNames(squares []Square) []string {
	names := make([]string, 0, len(squares))
	for _, sq := range squares {
		names = append(names, sq.String())
	}
	sort.Strings(names)
	return names
}

func destinationsOf(t *testing.T, b *Board, s string) []string {
	t.Helper()
	p, ok := b.At(mustSquare(t, s))
	if !ok {
		t.Fatalf("no piece on %s", s)
	}
	return squareNames(LegalDestinations(p, b))
}

func TestLegalDestinationsStartingPosition(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		from string
		want []string
	}{
		{"e2", []string{"e3", "e4"}},
		{"a7", []string{"a5", "a6"}},
		{"b1", []string{"a3", "c3"}},
		{"g8", []string{"f6", "h6"}},
		{"a1", []string{}},
		{"c1", []string{}},
		{"d1", []string{}},
		{"e1", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, destinationsOf(t, b, tt.from)); diff != "" {
				t.Errorf("LegalDestinations(%s) mismatch (-want +got):\n%s", tt.from, diff)
			}
		})
	}
}

func TestLegalDestinationsPerPiece(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, b *Board)
		from  string
		want  []string
	}{
		{
			name: "rook stops at friend and captures enemy",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Rook, White, "d4")
				mustPlace(t, b, Pawn, White, "d6")
				mustPlace(t, b, Knight, Black, "f4")
			},
			from: "d4",
			want: []string{"a4", "b4", "c4", "d1", "d2", "d3", "d5", "e4", "f4"},
		},
		{
			name: "bishop rays",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Bishop, Black, "c1")
				mustPlace(t, b, Pawn, White, "e3")
				mustPlace(t, b, Pawn, Black, "b2")
			},
			from: "c1",
			want: []string{"d2", "e3"},
		},
		{
			name: "queen on empty board",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Queen, White, "d4")
			},
			from: "d4",
			want: squareNames(func() []Square {
				var out []Square
				for row := 0; row < boardSize; row++ {
					for col := 0; col < boardSize; col++ {
						dr, dc := row-4, col-3
						if dr == 0 && dc == 0 {
							continue
						}
						if dr == 0 || dc == 0 || dr == dc || dr == -dc {
							out = append(out, Square{Row: row, Col: col})
						}
					}
				}
				return out
			}()),
		},
		{
			name: "knight jumps over pieces",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Knight, White, "a1")
				mustPlace(t, b, Pawn, White, "a2")
				mustPlace(t, b, Pawn, White, "b2")
				mustPlace(t, b, Pawn, White, "b1")
				mustPlace(t, b, Rook, Black, "c2")
			},
			from: "a1",
			want: []string{"b3", "c2"},
		},
		{
			name: "king in the corner",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, King, Black, "h8")
				mustPlace(t, b, Pawn, Black, "h7")
				mustPlace(t, b, Pawn, White, "g7")
			},
			from: "h8",
			want: []string{"g7", "g8"},
		},
		{
			name: "pawn double step blocked by intermediate square",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Pawn, White, "c2")
				mustPlace(t, b, Knight, Black, "c3")
			},
			from: "c2",
			want: []string{},
		},
		{
			name: "pawn double step blocked on destination",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Pawn, Black, "f7")
				mustPlace(t, b, Knight, White, "f5")
			},
			from: "f7",
			want: []string{"f6"},
		},
		{
			name: "pawn off its starting rank moves one square",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Pawn, White, "e3")
			},
			from: "e3",
			want: []string{"e4"},
		},
		{
			name: "pawn captures diagonally only enemies",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Pawn, White, "d4")
				mustPlace(t, b, Pawn, Black, "d5")
				mustPlace(t, b, Bishop, Black, "c5")
				mustPlace(t, b, Bishop, White, "e5")
			},
			from: "d4",
			want: []string{"c5"},
		},
		{
			name: "pawn on the edge file",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Pawn, Black, "h4")
				mustPlace(t, b, Rook, White, "g3")
			},
			from: "h4",
			want: []string{"g3", "h3"},
		},
		{
			name: "pawn on the last rank has no moves",
			setup: func(t *testing.T, b *Board) {
				mustPlace(t, b, Pawn, White, "a8")
				mustPlace(t, b, Pawn, Black, "h1")
			},
			from: "a8",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewEmptyBoard()
			tt.setup(t, b)
			if diff := cmp.Diff(tt.want, destinationsOf(t, b, tt.from)); diff != "" {
				t.Errorf("LegalDestinations(%s) mismatch (-want +got):\n%s", tt.from, diff)
			}
		})
	}
}

func TestLegalDestinationsBlackPawnOnLastRank(t *testing.T) {
	b := NewEmptyBoard()
	mustPlace(t, b, Pawn, Black, "c1")
	mustPlace(t, b, Rook, White, "b2")
	if got := destinationsOf(t, b, "c1"); len(got) != 0 {
		t.Errorf("LegalDestinations(c1) = %v, want none", got)
	}
}

func TestLegalDestinationsDoesNotMutate(t *testing.T) {
	b := NewBoard()
	before := b.Snapshot()
	for _, p := range b.Pieces() {
		LegalDestinations(p, b)
	}
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("board changed (-before +after):\n%s", diff)
	}
}
