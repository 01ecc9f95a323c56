//go:build ignore

// Writes a JSON array of sample notes for `mdnote import`.
//
//	go run scripts/generate_sample.go > sample.json
package main

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
	"time"

	"github.com/mithrel/mdnote/pkg/api"
)

var topics = []string{"Groceries", "Meeting", "Reading list", "Garden", "Trip plan", "Recipe", "Ideas", "Journal"}

func main() {
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	const total = 500
	out := make([]api.Note, 0, total)
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < total; i++ {
		// Stagger timestamps backwards to look natural
		created := base.Add(-time.Duration(30*i+mr.Intn(60)) * time.Minute)
		// Some notes get later updates; most keep same
		updated := created.Add(time.Duration(mr.Intn(180)) * time.Minute)
		if mr.Float64() < 0.7 {
			updated = created
		}
		out = append(out, api.Note{
			Text:      sampleText(mr, i),
			CreatedAt: created,
			UpdatedAt: updated,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

// sampleText mixes the Markdown the renderer cares about: headings, [TOC],
// tables, strikethrough and runs of blank lines.
func sampleText(r *mrand.Rand, i int) string {
	topic := topics[r.Intn(len(topics))]
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %03d\n\n", topic, i+1)
	if r.Intn(4) == 0 {
		b.WriteString("[TOC]\n\n")
	}
	fmt.Fprintf(&b, "Some *notes* about **%s**.\nSecond line of the same paragraph.\n", strings.ToLower(topic))
	b.WriteString(strings.Repeat("\n", 1+r.Intn(3)))
	b.WriteString("## Items\n\n")
	for j := 0; j < 1+r.Intn(4); j++ {
		if r.Intn(3) == 0 {
			fmt.Fprintf(&b, "- ~~item %d~~\n", j+1)
		} else {
			fmt.Fprintf(&b, "- item %d\n", j+1)
		}
	}
	if r.Intn(3) == 0 {
		b.WriteString("\n| key | value |\n|-----|-------|\n")
		fmt.Fprintf(&b, "| n | %d |\n", i+1)
	}
	return b.String()
}
