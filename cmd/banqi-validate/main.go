// Command banqi-validate replays a solution against its puzzle.
//
// Input: the puzzle position on the first line, then moves. The exit status
// is 0 for a win, 1 for an illegal move, 2 when the moves run out before the
// puzzle is won and 3 when the position line is missing.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/banqi/internal/board"
	"github.com/hailam/banqi/internal/replay"
)

var strict = flag.Bool("strict", false, "forbid landing on a square held by the mover's own side")

func main() {
	flag.Parse()
	log.SetFlags(0)

	if err := board.Init(); err != nil {
		log.Fatal(err)
	}

	os.Exit(replay.Run(os.Stdin, os.Stdout, os.Stderr, replay.Options{StrictOwnership: *strict}))
}
