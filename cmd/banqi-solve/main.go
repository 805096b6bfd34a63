// Command banqi-solve reads a puzzle position and prints the shortest
// capture sequence found by the solver.
//
// Output on stdout: elapsed seconds, the move count (-1 without a solution),
// then one move per line. Diagnostics go to stderr.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/hailam/banqi/internal/board"
	"github.com/hailam/banqi/internal/engine"
	"github.com/hailam/banqi/internal/render"
	"github.com/hailam/banqi/internal/replay"
	"github.com/hailam/banqi/internal/storage"
)

var (
	fenFlag    = flag.String("fen", "", "puzzle position (default: first line of stdin)")
	heuristic  = flag.String("heuristic", "count", "search heuristic: count or plan")
	strict     = flag.Bool("strict", false, "forbid landing on a square held by the mover's own side")
	dbPath     = flag.String("db", "", `solution cache directory, "default" for the user data directory (default $BANQI_DB, empty disables)`)
	svgPath    = flag.String("svg", "", "write an SVG diagram of the puzzle to file")
	pngPath    = flag.String("png", "", "write a PNG diagram of the puzzle to file")
	diagrams   = flag.Bool("diagrams", false, "write SVG and PNG diagrams to the user data directory")
	verbose    = flag.Bool("v", false, "log search progress")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	startTime := time.Now()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if err := board.Init(); err != nil {
		log.Fatal(err)
	}

	h, err := engine.HeuristicByName(*heuristic)
	if err != nil {
		log.Fatal(err)
	}

	fen := *fenFlag
	if fen == "" {
		if fen, err = readLine(os.Stdin); err != nil {
			log.Fatal("could not read position: ", err)
		}
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	pos.StrictOwnership = *strict

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	moves, cost, rec := solve(pos, h, store)
	elapsed := time.Since(startTime)

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(out, "%.4f\n", elapsed.Seconds())
	fmt.Fprintln(out, cost)
	for _, m := range moves {
		fmt.Fprintln(out, m)
	}
	if err := out.Flush(); err != nil {
		log.Fatal(err)
	}

	if store != nil {
		rec.Elapsed = elapsed
		if err := store.RecordSearch(rec); err != nil {
			log.Printf("Warning: statistics not saved: %v", err)
		}
	}

	var first board.Move
	if len(moves) > 0 {
		first = moves[0]
	}
	writeDiagrams(pos, first)
}

// solve returns a solution from the cache when one replays correctly, and
// searches otherwise.
func solve(pos *board.Position, h engine.Heuristic, store *storage.Storage) ([]board.Move, int, storage.SearchRecord) {
	key := pos.ToFEN()

	if store != nil {
		if moves, ok := cachedSolution(store, h.Name(), key, pos); ok {
			log.Printf("Using cached solution for %s", key)
			return moves, len(moves), storage.SearchRecord{Found: true, Cached: true}
		}
	}

	eng := engine.NewEngine(h)
	if *verbose {
		eng.OnInfo = func(info engine.SearchInfo) {
			log.Printf("expanded %d generated %d frontier %d visited %d best f %d (%v)",
				info.Expanded, info.Generated, info.Frontier, info.Visited, info.BestF, info.Time.Round(time.Millisecond))
		}
	}

	res := eng.Solve(pos)
	if *verbose {
		log.Printf("search finished: found=%v cost=%d expanded=%d in %v", res.Found, res.Cost, res.Expanded, res.Elapsed)
	}

	if store != nil && res.Found {
		sol := &storage.Solution{
			FEN:       key,
			Heuristic: h.Name(),
			Strict:    pos.StrictOwnership,
			Cost:      res.Cost,
			Expanded:  res.Expanded,
			Elapsed:   res.Elapsed,
		}
		for _, m := range res.Moves {
			sol.Moves = append(sol.Moves, m.String())
		}
		if err := store.SaveSolution(sol); err != nil {
			log.Printf("Warning: solution not cached: %v", err)
		}
	}

	return res.Moves, res.Cost, storage.SearchRecord{Found: res.Found, Expanded: res.Expanded}
}

// cachedSolution loads a cached solution and checks it against the position.
func cachedSolution(store *storage.Storage, heuristic, key string, pos *board.Position) ([]board.Move, bool) {
	sol, found, err := store.LoadSolution(heuristic, pos.StrictOwnership, key)
	if err != nil {
		log.Printf("Warning: cache lookup failed: %v", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	moves := make([]board.Move, 0, len(sol.Moves))
	for _, s := range sol.Moves {
		m, err := board.ParseMove(s)
		if err != nil {
			log.Printf("Warning: cached move %q: %v", s, err)
			return nil, false
		}
		moves = append(moves, m)
	}

	if err := replay.Validate(pos, moves); err != nil {
		log.Printf("Warning: discarding cached solution: %v", err)
		if err := store.DeleteSolution(heuristic, pos.StrictOwnership, key); err != nil {
			log.Printf("Warning: %v", err)
		}
		return nil, false
	}
	return moves, true
}

func openStore() *storage.Storage {
	path := *dbPath
	if path == "" {
		path = os.Getenv("BANQI_DB")
	}
	if path == "" {
		return nil
	}

	var store *storage.Storage
	var err error
	if path == "default" {
		store, err = storage.NewStorage()
	} else {
		store, err = storage.Open(path)
	}
	if err != nil {
		log.Printf("Warning: solution cache disabled: %v", err)
		return nil
	}
	return store
}

func writeDiagrams(pos *board.Position, first board.Move) {
	opts := render.Options{Coordinates: true, Highlight: render.HighlightMove(first)}

	svgOut, pngOut := *svgPath, *pngPath
	if *diagrams {
		dir, err := storage.GetRenderDir()
		if err != nil {
			log.Printf("Warning: %v", err)
		} else {
			name := diagramName(pos)
			if svgOut == "" {
				svgOut = filepath.Join(dir, name+".svg")
			}
			if pngOut == "" {
				pngOut = filepath.Join(dir, name+".png")
			}
		}
	}

	if svgOut != "" {
		if err := writeFile(svgOut, func(w io.Writer) error { return render.WriteSVG(w, pos, opts) }); err != nil {
			log.Printf("Warning: %v", err)
		} else if *verbose {
			log.Printf("Wrote %s", svgOut)
		}
	}
	if pngOut != "" {
		if err := writeFile(pngOut, func(w io.Writer) error { return render.WritePNG(w, pos, opts) }); err != nil {
			log.Printf("Warning: %v", err)
		} else if *verbose {
			log.Printf("Wrote %s", pngOut)
		}
	}
}

// diagramName turns a position into a file name: ranks joined by '-',
// followed by the side to move.
func diagramName(pos *board.Position) string {
	return strings.NewReplacer("/", "-", " ", "_", "?", "x").Replace(pos.ToFEN())
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// readLine returns the first line of r without surrounding whitespace.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", io.ErrUnexpectedEOF
	}
	return line, nil
}
