// Command validate checks ruleset JSON files. For each file it reports:
//   - JSON structure, unknown fields and required fields
//   - Board length, starting teeth, player names and deck composition limits
//   - Warnings for rulesets that load but play badly
//   - A composition summary of the board specials and the deck
//
// It exits with a non-zero status if any ruleset is invalid.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/dark-candy-land/game/engine"
)

// errInvalid is returned after the report when any ruleset failed
var errInvalid = errors.New("some rulesets have errors")

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single ruleset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	if id := strings.TrimSuffix(result.File, ".json"); id != config.Name {
		result.warn("name %q differs from file name %q; sessions record the name", config.Name, id)
	}

	checkPlayability(&config, &result)
	result.Info = summarize(&config)

	return result
}

// checkPlayability adds warnings for rulesets that load but play badly
func checkPlayability(config *engine.GameConfig, result *ValidationResult) {
	dc := config.Deck

	if dc.SinglesPerColor+dc.DoublesPerColor == 0 {
		result.warn("deck has no color cards; only special cards move players")
	}

	if config.BoardLength < engine.DefaultBoardLength {
		result.warn("board is shorter than the %d-tile layout; tile %d becomes the castle", engine.DefaultBoardLength, config.BoardLength-1)
	}

	if e, ok := engine.TileEffect(engine.Cavity); ok && config.StartingTeeth <= -e.Teeth {
		result.warn("starting_teeth %d collapses on the first Cavity Crawl", config.StartingTeeth)
	}

	if config.Players[0] == config.Players[1] {
		result.warn("both players are named %q", config.Players[0])
	}
}

// summarize describes the board specials and deck of a valid ruleset
func summarize(config *engine.GameConfig) []string {
	counts := map[engine.Special]int{}
	for i := 0; i < config.BoardLength-1; i++ {
		if s := engine.LayoutSpecial(i); s != engine.NoSpecial && s != engine.Castle {
			counts[s]++
		}
	}

	specials := make([]string, 0, len(counts))
	for s, n := range counts {
		specials = append(specials, fmt.Sprintf("%s %d", s, n))
	}
	sort.Strings(specials)

	dc := config.Deck
	colors := len(engine.Colors) * (dc.SinglesPerColor + dc.DoublesPerColor)
	specialShare := 0.0
	if size := dc.Size(); size > 0 {
		specialShare = 100 * float64(dc.RainbowRot+dc.CandyCaneShortcut) / float64(size)
	}

	return []string{
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Board: %d tiles, castle at %d", config.BoardLength, config.BoardLength-1),
		fmt.Sprintf("✓ Specials: %s", strings.Join(specials, ", ")),
		fmt.Sprintf("✓ Players: %s (%d teeth each)", strings.Join(config.Players, " vs "), config.StartingTeeth),
		fmt.Sprintf("✓ Deck: %d cards (%d color, %d Rainbow Rot, %d Candy Cane Shortcut, %.0f%% special)",
			dc.Size(), colors, dc.RainbowRot, dc.CandyCaneShortcut, specialShare),
	}
}

// report prints one result and returns whether it was valid
func report(w io.Writer, result ValidationResult, strict bool) bool {
	fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

	valid := result.Valid && !(strict && len(result.Warnings) > 0)
	if valid {
		fmt.Fprintln(w, "✅ VALID")
	} else {
		fmt.Fprintln(w, "❌ INVALID")
	}
	for _, err := range result.Errors {
		fmt.Fprintln(w, "  ❌ "+err)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(w, "  ⚠️  "+warning)
	}
	for _, info := range result.Info {
		fmt.Fprintln(w, "  "+info)
	}
	return valid
}

// run validates every file and prints a report
func run(w io.Writer, files []string, strict bool) error {
	if len(files) == 0 {
		return fmt.Errorf("no ruleset files found")
	}

	allValid := true
	for _, file := range files {
		if !report(w, validateConfig(file), strict) {
			allValid = false
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some rulesets have errors")
		return errInvalid
	}
	fmt.Fprintln(w, "✅ All rulesets are valid!")
	return nil
}

func newCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate Dark Candy Land ruleset files",
		ArgsUsage: "[file.json ...]",
		Writer:    w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "directory scanned for *.json when no files are given",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat warnings as errors",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				files, err = filepath.Glob(filepath.Join(cmd.String("config-dir"), "*.json"))
				if err != nil {
					return fmt.Errorf("error finding ruleset files: %w", err)
				}
			}
			return run(w, files, cmd.Bool("strict"))
		},
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
