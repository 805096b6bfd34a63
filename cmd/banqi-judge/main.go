// Command banqi-judge solves a file of puzzles and grades every answer.
//
// The puzzle file lists, after optional '#' comment lines, a name, a
// position and the expected number of moves for each puzzle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/hailam/banqi/internal/board"
	"github.com/hailam/banqi/internal/engine"
	"github.com/hailam/banqi/internal/judge"
	"github.com/hailam/banqi/internal/puzzle"
	"github.com/hailam/banqi/internal/storage"
)

var (
	casesPath  = flag.String("cases", "testcases", "puzzle file")
	heuristic  = flag.String("heuristic", "count", "search heuristic: count or plan")
	workers    = flag.Int("workers", 0, "puzzles solved at once (default 1 with a budget, GOMAXPROCS without; concurrent puzzles share the CPU while timed)")
	budget     = flag.Duration("budget", judge.DefaultBudget, "time allowed per puzzle (0 disables)")
	strict     = flag.Bool("strict", false, "forbid landing on a square held by the mover's own side")
	dbPath     = flag.String("db", "", `directory for run history, "default" for the user data directory (default $BANQI_DB, empty disables)`)
	history    = flag.Bool("history", false, "list stored runs and exit")
	verbose    = flag.Bool("v", false, "log each puzzle as it finishes")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	os.Exit(run())
}

func run() int {
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

	store, err := openStore()
	if err != nil {
		log.Printf("Warning: run history disabled: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	if *history {
		return listHistory(store)
	}

	if err := board.Init(); err != nil {
		log.Fatal(err)
	}

	h, err := engine.HeuristicByName(*heuristic)
	if err != nil {
		log.Fatal(err)
	}

	cases, err := puzzle.Load(*casesPath)
	if err != nil {
		log.Printf("Where are my testcases? %v", err)
		return 1
	}

	j := &judge.Judge{
		Heuristic:       h,
		Budget:          *budget,
		Workers:         *workers,
		StrictOwnership: *strict,
	}
	if *verbose {
		j.OnReport = func(r judge.Report) {
			log.Printf("%s: %v after %v", r.Case.Name, r.Verdict, r.Elapsed.Round(time.Millisecond))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	started := time.Now()
	reports, err := j.Run(ctx, cases)
	if err != nil {
		log.Printf("judging stopped: %v", err)
		return 1
	}

	fmt.Println("===== Judgement =====")
	for _, r := range reports {
		fmt.Printf("%s - %v", r.Case.Name, r.Verdict)
		if r.Reason != "" {
			fmt.Printf(" (%s)", r.Reason)
		}
		fmt.Printf(" @ %.4fs\n", r.Elapsed.Seconds())
	}

	summary := judge.Summarize(reports)
	fmt.Println(summary)

	if store != nil {
		rec := &storage.Run{StartedAt: started, Heuristic: h.Name(), Strict: *strict, Reports: reports, Summary: summary}
		if err := store.SaveRun(rec); err != nil {
			log.Printf("Warning: run not saved: %v", err)
		} else {
			log.Printf("Run saved as %s", rec.ID)
		}
	}

	if summary.Count(judge.Pass) != summary.Total {
		return 1
	}
	return 0
}

func openStore() (*storage.Storage, error) {
	path := *dbPath
	if path == "" {
		path = os.Getenv("BANQI_DB")
	}
	switch path {
	case "":
		return nil, nil
	case "default":
		return storage.NewStorage()
	}
	return storage.Open(path)
}

func listHistory(store *storage.Storage) int {
	if store == nil {
		log.Print("no run history: pass -db or set BANQI_DB")
		return 1
	}

	runs, err := store.ListRuns()
	if err != nil {
		log.Printf("could not list runs: %v", err)
		return 1
	}
	for _, r := range runs {
		mode := ""
		if r.Strict {
			mode = "strict"
		}
		fmt.Printf("%s  %s  %-5s  %-6s  %v\n", r.ID, r.StartedAt.Format(time.RFC3339), r.Heuristic, mode, r.Summary)
	}
	return 0
}
