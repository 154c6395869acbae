package model

// WSMove is a move as sent by clients, squares in algebraic notation.
type WSMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (m WSMove) squares() (Square, Square, error) {
	from, err := ParseSquare(m.From)
	if err != nil {
		return Square{}, Square{}, err
	}
	to, err := ParseSquare(m.To)
	if err != nil {
		return Square{}, Square{}, err
	}
	return from, to, nil
}
