package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/hupe1980/edumesh/engine"
)

const (
	colorOK    = color.FgGreen
	colorWarn  = color.FgYellow
	colorError = color.FgRed
)

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

// printOutcome renders a run for the terminal.
func printOutcome(out *engine.Outcome, threshold float64) {
	if out.Failed() {
		return
	}

	path, _ := out.LearningPath()
	bold := color.New(color.Bold)

	fmt.Println()
	bold.Printf("Learning path: %s\n", path.MainGoal)
	fmt.Printf("%s %s  %s %d  %s %s\n\n",
		color.HiBlackString("session"), out.SessionID,
		color.HiBlackString("steps"), out.Steps,
		color.HiBlackString("took"), out.Duration.Round(time.Millisecond))

	if len(path.ValidatedPath) == 0 {
		printStatus("⚠", fmt.Sprintf("No resource reached the quality threshold of %.1f", threshold), colorWarn)
		return
	}

	for i, r := range path.ValidatedPath {
		score := "-"
		if r.Score != nil {
			score = fmt.Sprintf("%.1f", *r.Score)
		}
		printStatus("✓", fmt.Sprintf("%d. %s [%s, score %s]", i+1, r.Title, r.Type, score), colorOK)
		fmt.Printf("   %s %s\n", color.HiBlackString("topic"), r.Topic)
		fmt.Printf("   %s %s\n", color.HiBlackString("link "), color.CyanString(r.Link))
		fmt.Printf("   %s %s\n", color.HiBlackString("date "), r.Date)
		fmt.Printf("   %s\n\n", r.Summary)
	}
}

// printJSON writes the terminal payload in its keyed mapping form.
func printJSON(w io.Writer, out *engine.Outcome) error {
	doc := map[string]any{
		"session_id": out.SessionID,
		"run_id":     out.RunID,
		"steps":      out.Steps,
		"result":     out.Map(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
