package model

var (
	rookDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	knightDirs = []Square{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
	kingDirs   = append(append([]Square{}, rookDirs...), bishopDirs...)
)

// LegalDestinations returns the pseudo-legal destinations of p on b: movement
// geometry and same-color blocking only. It never mutates the board.
func LegalDestinations(p Piece, b *Board) []Square {
	switch p.Type {
	case Pawn:
		return pawnDestinations(p, b)
	case Rook:
		return slidingDestinations(p, b, rookDirs)
	case Bishop:
		return slidingDestinations(p, b, bishopDirs)
	case Queen:
		return append(slidingDestinations(p, b, rookDirs), slidingDestinations(p, b, bishopDirs)...)
	case Knight:
		return stepDestinations(p, b, knightDirs)
	case King:
		return stepDestinations(p, b, kingDirs)
	default:
		return nil
	}
}

func containsSquare(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}

func pawnDirection(c Color) (step, startRow int) {
	if c == White {
		return -1, 6
	}
	return 1, 1
}

func pawnDestinations(p Piece, b *Board) []Square {
	moves := []Square{}
	step, startRow := pawnDirection(p.Color)
	forward := p.Square.offset(step, 0)
	if forward.InBounds() && b.isEmpty(forward) {
		moves = append(moves, forward)
		double := p.Square.offset(2*step, 0)
		if p.Square.Row == startRow && double.InBounds() && b.isEmpty(double) {
			moves = append(moves, double)
		}
	}
	for _, dCol := range []int{-1, 1} {
		target := p.Square.offset(step, dCol)
		if !target.InBounds() {
			continue
		}
		if occupant, ok := b.At(target); ok && occupant.Color != p.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slidingDestinations(p Piece, b *Board, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := p.Square.offset(dir.Row, dir.Col)
		for target.InBounds() {
			occupant, ok := b.At(target)
			if !ok {
				moves = append(moves, target)
			} else {
				if occupant.Color != p.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func stepDestinations(p Piece, b *Board, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := p.Square.offset(dir.Row, dir.Col)
		if !target.InBounds() {
			continue
		}
		if occupant, ok := b.At(target); !ok || occupant.Color != p.Color {
			moves = append(moves, target)
		}
	}
	return moves
}
