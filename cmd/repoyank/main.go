package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/atotto/clipboard"

	"github.com/repoyank/repoyank"
	"github.com/repoyank/repoyank/match"
	"github.com/repoyank/repoyank/pick"
	"github.com/repoyank/repoyank/scan"
)

// Args defines the command-line arguments
type Args struct {
	Patterns       []string `arg:"positional" help:"Root directory and/or file patterns (fuzzy by default, /regex, =exact, globs)"`
	All            bool     `arg:"-a,--all" help:"Copy every matched file without the interactive picker"`
	Types          []string `arg:"-t,--type,separate" help:"Only include files with these extensions (comma-separated or repeated)"`
	Select         []string `arg:"-s,--select,separate" help:"Pre-select files matching these patterns before the picker opens"`
	IncludeIgnored bool     `arg:"-i,--include-ignored" help:"Include files excluded by .gitignore"`
	DryRun         bool     `arg:"-n,--dry-run" help:"Print the payload to stdout instead of copying it"`
	TokenEstimator string   `arg:"--token-estimator" help:"Token count estimator to use: 'simple' (size/4) or 'tiktoken'" default:"simple"`
}

// Runner encapsulates the state and behavior for the CLI
type Runner struct {
	Args      Args
	RootPath  string
	Patterns  []string
	Estimator repoyank.TokenEstimator
}

// NewRunner resolves the root directory and the token estimator from the
// parsed arguments. When the first positional argument names an existing
// directory it becomes the root; every other positional is a file pattern.
func NewRunner(args Args) (*Runner, error) {
	root := "."
	patterns := args.Patterns
	if len(patterns) > 0 {
		if info, err := os.Stat(patterns[0]); err == nil && info.IsDir() {
			root = patterns[0]
			patterns = patterns[1:]
		}
	}

	var estimator repoyank.TokenEstimator
	switch args.TokenEstimator {
	case "simple":
		estimator = repoyank.EstimateTokensSimple
	case "tiktoken":
		estimator = repoyank.EstimateTokensTiktoken
	default:
		return nil, fmt.Errorf("unknown token estimator: %s", args.TokenEstimator)
	}

	return &Runner{
		Args:      args,
		RootPath:  root,
		Patterns:  patterns,
		Estimator: estimator,
	}, nil
}

// Run scans the root, narrows the listing to the candidate set, applies any
// pre-selection, picks files (interactively or headlessly) and ships the
// payload.
func (r *Runner) Run() error {
	entries, err := scan.Scan(r.RootPath, splitTypes(r.Args.Types), r.Args.IncludeIgnored)
	if err != nil {
		return err
	}

	entries, err = filterCandidates(entries, r.Patterns)
	if err != nil {
		return err
	}

	nodes := pick.BuildNodes(entries, pick.BuildTreeLabels(entries, "."), ".")
	if len(nodes) == 0 {
		return fmt.Errorf("no files matched under %s", r.RootPath)
	}

	if err := preselect(nodes, r.Args.Select); err != nil {
		return err
	}

	if r.Args.All {
		for i := range nodes {
			if !nodes[i].IsDir {
				pick.ApplyState(nodes, i, pick.FullySelected)
				pick.RefreshAncestors(nodes, i)
			}
		}
	} else {
		confirmed, err := runPicker(nodes)
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	payload, files := repoyank.Payload(nodes, r.RootPath)
	if len(files) == 0 {
		return fmt.Errorf("no files selected")
	}

	tokens, err := r.Estimator(payload)
	if err != nil {
		return err
	}

	if r.Args.DryRun {
		fmt.Print(payload)
		fmt.Fprintf(os.Stderr, "Dry run: %d files (≈ %d tokens), nothing copied.\n", len(files), tokens)
		return nil
	}

	if err := clipboard.WriteAll(payload); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Printf("✅ Copied %d files (≈ %d tokens) to the clipboard.\n", len(files), tokens)
	return nil
}

// splitTypes flattens repeated and comma-separated -t values.
func splitTypes(types []string) []string {
	var out []string
	for _, t := range types {
		for _, part := range strings.Split(t, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// filterCandidates narrows the scanned entries to the files matching the
// patterns, keeping every ancestor directory (and the root) so the tree
// still renders. Entry order is preserved. With no patterns everything is a
// candidate.
func filterCandidates(entries []pick.Entry, patterns []string) ([]pick.Entry, error) {
	if len(patterns) == 0 {
		return entries, nil
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir {
			files = append(files, e.Path)
		}
	}
	matched, err := match.Select(files, patterns)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(matched))
	for _, p := range matched {
		keep[p] = true
		for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
			keep[dir] = true
			if dir == "." || dir == string(filepath.Separator) {
				break
			}
		}
	}
	keep["."] = true

	var out []pick.Entry
	for _, e := range entries {
		if keep[filepath.Clean(e.Path)] {
			out = append(out, e)
		}
	}
	return out, nil
}

// preselect marks files matching the -s patterns as fully selected, then
// refreshes ancestor states in a second pass so intermediate directory
// states are not computed from half-applied selections.
func preselect(nodes []pick.Node, patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}

	var files []string
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if !n.IsDir {
			files = append(files, n.Path)
			index[n.Path] = i
		}
	}
	matched, err := match.Select(files, patterns)
	if err != nil {
		return err
	}

	for _, p := range matched {
		pick.ApplyState(nodes, index[p], pick.FullySelected)
	}
	for _, p := range matched {
		pick.RefreshAncestors(nodes, index[p])
	}
	return nil
}

// main is our entrypoint: parse args and run the application
func main() {
	var args Args
	arg.MustParse(&args)

	runner, err := NewRunner(args)
	if err != nil {
		log.Fatal(err)
	}
	if err := runner.Run(); err != nil {
		log.Fatal(err)
	}
}
