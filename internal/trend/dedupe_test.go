package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(title, authors string) Record {
	return Record{Title: title, Authors: authors}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	in := []Record{
		{Title: "A", Authors: "x", No: "1"},
		{Title: "B", Authors: "y", No: "2"},
		{Title: "A", Authors: "x", No: "3"},
		{Title: "A", Authors: "z", No: "4"},
		{Title: "B", Authors: "y", No: "5"},
	}

	got := Dedupe(in)

	assert.Equal(t, []string{"1", "2", "4"}, []string{got[0].No, got[1].No, got[2].No})
	assert.Len(t, got, 3)
}

func TestDedupe_Idempotent(t *testing.T) {
	inputs := [][]Record{
		nil,
		{rec("A", "x")},
		{rec("A", "x"), rec("A", "x"), rec("A", "x")},
		{rec("A", "x"), rec("B", "y"), rec("A", "x"), rec("C", "z"), rec("B", "y")},
	}

	for _, in := range inputs {
		once := Dedupe(in)
		assert.Equal(t, once, Dedupe(once))
	}
}

func TestDedupe_UniqueKeys(t *testing.T) {
	got := Dedupe([]Record{rec("A", "x"), rec("Ax", ""), rec("A", "x"), rec("B", "y")})

	seen := map[string]bool{}
	for _, r := range got {
		assert.False(t, seen[r.Key()], "duplicate key %q", r.Key())
		seen[r.Key()] = true
	}
}

func TestDeduper_SpansBatches(t *testing.T) {
	d := NewDeduper()

	first := d.Add([]Record{rec("A", "x"), rec("B", "y")})
	second := d.Add([]Record{rec("B", "y"), rec("C", "z"), rec("A", "x")})

	assert.Len(t, first, 2)
	assert.Equal(t, []Record{rec("C", "z")}, second)
}
