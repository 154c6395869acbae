// Command atomic plays atomic chess in the terminal, two players sharing
// one keyboard. Moves are entered as "e2 e4"; "quit" forfeits.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/atomicchess-backend/internal/model"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Welcome to Atomic Chess! BOOM!")
	fmt.Fprintln(out, "Capture the enemy's king to win!")
	fmt.Fprint(out, "Start Game (Y/N): ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	switch strings.ToUpper(strings.TrimSpace(scanner.Text())) {
	case "Y":
	case "N":
		fmt.Fprintln(out, "please play :(")
		return nil
	default:
		fmt.Fprintln(out, "Invalid input")
		return nil
	}

	game := model.NewGame()
	for game.Status() == model.Unfinished {
		fmt.Fprintln(out)
		renderBoard(out, game)
		fmt.Fprintf(out, "%s's Turn: ", game.Turn())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return errors.New("input closed before the game ended")
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "quit") {
			// cannot fail: the loop only runs while the game is unfinished
			_ = game.Resign(game.Turn())
			break
		}
		playMove(out, game, line)
	}

	fmt.Fprintln(out)
	renderBoard(out, game)
	fmt.Fprintf(out, "Game Over: %s\n", game.Status())
	return nil
}

func playMove(out io.Writer, game *model.Game, line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		fmt.Fprintln(out, "Invalid input. Example of correct input: 'b2 b4'.")
		return
	}
	from, err := model.ParseSquare(fields[0])
	if err != nil {
		fmt.Fprintln(out, "Invalid input. Example of correct input: 'b2 b4'.")
		return
	}
	to, err := model.ParseSquare(fields[1])
	if err != nil {
		fmt.Fprintln(out, "Invalid input. Example of correct input: 'b2 b4'.")
		return
	}

	switch game.AttemptMove(from, to) {
	case model.WrongTurn:
		fmt.Fprintln(out, "Not your turn")
	case model.IllegalMove:
		fmt.Fprintln(out, "! Illegal Move. Please follow the rules of chess !")
	}
}
