package grid

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func randomItems(r *rand.Rand, n, columns int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID: fmt.Sprintf("w%02d", i),
			X:  r.IntN(columns + 2),
			Y:  r.IntN(n + 1),
			W:  1 + r.IntN(columns+1),
			H:  1 + r.IntN(3),
		}
	}
	return items
}

func orderedIDs(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestReflowProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))

	for round := range 200 {
		columns := []int{1, 2, 3, 4, 6}[r.IntN(5)]
		in := randomItems(r, 1+r.IntN(12), columns)
		out := Reflow(in, columns)

		if v := ValidateGrid(LG, Grid{Columns: columns, Items: out}); len(v) != 0 {
			t.Fatalf("round %d: Reflow(%v, %d) violations: %v", round, in, columns, v)
		}

		if got, want := orderedIDs(out), orderedIDs(ReadingOrder(in)); !slices.Equal(got, want) {
			t.Fatalf("round %d: placement order = %v, want %v", round, got, want)
		}
		if got, want := orderedIDs(ReadingOrder(out)), orderedIDs(out); !slices.Equal(got, want) {
			t.Fatalf("round %d: reading order of result = %v, want %v", round, got, want)
		}

		for i, it := range out {
			if it.W > columns {
				t.Fatalf("round %d: item %d width %d exceeds %d columns", round, i, it.W, columns)
			}
		}

		if again := Reflow(out, columns); !EqualItems(again, out) {
			t.Fatalf("round %d: Reflow not idempotent: %v then %v", round, out, again)
		}
	}
}

func TestProjectProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 9))

	for round := range 100 {
		canonical := Reflow(randomItems(r, 1+r.IntN(10), 4), 4)
		l := Project(canonical, DefaultBreakpoints)

		if v := Validate(l, LG); len(v) != 0 {
			t.Fatalf("round %d: Project() violations: %v", round, v)
		}

		want := orderedIDs(ReadingOrder(canonical))
		for bp, g := range l {
			if got := orderedIDs(ReadingOrder(g.Items)); !slices.Equal(got, want) {
				t.Fatalf("round %d: %s reading order = %v, want %v", round, bp, got, want)
			}
		}

		if again := ProjectFrom(l, DefaultBreakpoints); !Equal(again, l) {
			t.Fatalf("round %d: ProjectFrom(Project()) changed the layout", round)
		}
	}
}
