// Command corridor runs the surgical corridor planner end to end against the
// built-in synthetic cervical phantom and prints the safety report for one
// or more entry/target pairs. It exists so the planning pipeline can be
// exercised and tuned without any imaging front end attached.
//
// Usage:
//
//	corridor [flags] SI,SJ,SK:TI,TJ,TK [more pairs...]
//
// Each positional argument is an entry:target voxel pair. Pairs are planned
// sequentially on one session, with a reset in between.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/osteon-labs/corridor.plan/internal/config"
	"github.com/osteon-labs/corridor.plan/internal/monitoring"
	"github.com/osteon-labs/corridor.plan/internal/planner"
	"github.com/osteon-labs/corridor.plan/internal/version"
	"github.com/osteon-labs/corridor.plan/internal/volume"
)

var (
	dims        = flag.String("dims", "160x160x100", "phantom volume dimensions as IxJxK")
	margin      = flag.Float64("margin", -1, "safety margin in voxels (overrides config; <0 = unset)")
	threshold   = flag.Float64("threshold", -1, "min safe clearance in voxels (overrides config; <0 = unset)")
	configPath  = flag.String("config", "", "path to a JSON tuning file")
	quiet       = flag.Bool("quiet", false, "suppress progress logging")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Printf("corridor %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: corridor [flags] SI,SJ,SK:TI,TJ,TK [more pairs...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	params, err := loadParams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "corridor: %v\n", err)
		os.Exit(1)
	}

	d, err := parseDims(*dims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "corridor: %v\n", err)
		os.Exit(1)
	}

	monitoring.Logf("building %dx%dx%d cervical phantom", d[0], d[1], d[2])
	grid, err := volume.CervicalPhantom(d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "corridor: build phantom: %v\n", err)
		os.Exit(1)
	}

	monitoring.Logf("computing clearance and traversal-cost fields (margin=%.1f)", params.SafetyMargin)
	session, err := planner.NewSession(grid, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "corridor: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for n, arg := range flag.Args() {
		if n > 0 {
			session.Reset()
		}
		if err := planPair(session, grid, arg); err != nil {
			fmt.Fprintf(os.Stderr, "corridor: plan %q: %v\n", arg, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func loadParams() (planner.Params, error) {
	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			return planner.Params{}, err
		}
		cfg = loaded
	}
	params := cfg.Params()
	if *margin >= 0 {
		params.SafetyMargin = *margin
	}
	if *threshold >= 0 {
		params.MinSafeClearance = *threshold
	}
	return params, nil
}

func planPair(session *planner.Session, grid *volume.Grid, pair string) error {
	source, target, err := parsePair(pair)
	if err != nil {
		return err
	}

	monitoring.Logf("planning corridor %v -> %v", source, target)
	if _, err := session.SelectPoint(source); err != nil {
		return err
	}
	result, err := session.SelectPoint(target)
	if err != nil {
		return err
	}

	printResult(grid, result)
	return nil
}

func printResult(grid *volume.Grid, r *planner.Result) {
	status := "SAFE"
	if !r.Report.Safe {
		status = "WARNING"
	}
	note := ""
	if r.Path.Incomplete {
		note = fmt.Sprintf(" (incomplete: %s)", r.Path.Reason)
	}

	fmt.Printf("plan %s: %v -> %v\n", r.PlanID, r.Source, r.Target)
	fmt.Printf("  status:         %s%s\n", status, note)
	fmt.Printf("  min clearance:  %.2f voxels (%.2f mm)\n",
		r.Report.MinClearance, grid.VoxelsToMM(r.Report.MinClearance))
	fmt.Printf("  max clearance:  %.2f voxels\n", r.Report.MaxClearance)
	fmt.Printf("  mean clearance: %.2f voxels\n", r.Report.MeanClearance)
	fmt.Printf("  path points:    %d\n", len(r.Path.Points))
	fmt.Printf("  travel time:    %.2f\n", r.TravelTime)
	fmt.Printf("  recommendation: %s\n", r.Report.Recommendation())
}

func parseDims(s string) ([3]int, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("invalid dims %q, expected IxJxK", s)
	}
	var d [3]int
	for a, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v <= 0 {
			return [3]int{}, fmt.Errorf("invalid dims %q: axis %d", s, a)
		}
		d[a] = v
	}
	return d, nil
}

func parsePair(s string) (source, target volume.Voxel, err error) {
	halves := strings.Split(s, ":")
	if len(halves) != 2 {
		return source, target, fmt.Errorf("invalid pair %q, expected SI,SJ,SK:TI,TJ,TK", s)
	}
	if source, err = parseVoxel(halves[0]); err != nil {
		return source, target, err
	}
	if target, err = parseVoxel(halves[1]); err != nil {
		return source, target, err
	}
	return source, target, nil
}

func parseVoxel(s string) (volume.Voxel, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return volume.Voxel{}, fmt.Errorf("invalid voxel %q, expected I,J,K", s)
	}
	var c [3]int
	for a, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return volume.Voxel{}, fmt.Errorf("invalid voxel %q: %w", s, err)
		}
		c[a] = v
	}
	return volume.Voxel{I: c[0], J: c[1], K: c[2]}, nil
}
