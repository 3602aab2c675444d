package trend

import "booktrend/internal/metrics"

// Deduper drops records whose Key was already seen. The seen set lives as
// long as the Deduper, so one instance can span several upstream pages.
type Deduper struct {
	seen map[string]struct{}
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]struct{})}
}

// Add returns the records of batch not seen before, in input order.
func (d *Deduper) Add(batch []Record) []Record {
	out := make([]Record, 0, len(batch))
	for _, r := range batch {
		k := r.Key()
		if _, ok := d.seen[k]; ok {
			continue
		}
		d.seen[k] = struct{}{}
		out = append(out, r)
	}
	if removed := len(batch) - len(out); removed > 0 {
		metrics.DuplicatesRemoved.Add(float64(removed))
	}
	return out
}

// Dedupe keeps the first record of every duplicate key.
func Dedupe(records []Record) []Record {
	return NewDeduper().Add(records)
}
