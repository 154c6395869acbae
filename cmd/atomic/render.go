package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/atomicchess-backend/internal/model"
)

var glyphs = map[model.Color]map[model.PieceType]string{
	model.White: {
		model.King: "♚", model.Queen: "♛", model.Rook: "♜",
		model.Bishop: "♝", model.Knight: "♞", model.Pawn: "♟",
	},
	model.Black: {
		model.King: "♔", model.Queen: "♕", model.Rook: "♖",
		model.Bishop: "♗", model.Knight: "♘", model.Pawn: "♙",
	},
}

const fileLabels = "__|_A__B__C__D__E__F__G__H_"

func renderBoard(w io.Writer, g *model.Game) {
	board := g.Board()
	turn := string(g.Turn())
	fmt.Fprintf(w, " -----| %s%s's Turn |-----\n", strings.ToUpper(turn[:1]), turn[1:])
	fmt.Fprintln(w, fileLabels)
	for row := range board {
		fmt.Fprintf(w, "%d |", len(board)-row)
		for _, p := range board[row] {
			if p == nil {
				fmt.Fprint(w, "[ ]")
				continue
			}
			fmt.Fprintf(w, "[%s]", glyphs[p.Color][p.Type])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, fileLabels)
	fmt.Fprintf(w, "GAME STATUS: %s\n", g.Status())
}
