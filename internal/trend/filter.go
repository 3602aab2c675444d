package trend

import "booktrend/internal/facet"

// Cap truncates records to maxSize when one is given.
func Cap(records []Record, maxSize *int) []Record {
	if maxSize == nil || *maxSize >= len(records) {
		return records
	}
	return records[:max(*maxSize, 0)]
}

// NewReleases keeps records published in currentYear-offset or later.
// Records whose year is not an integer are dropped.
func NewReleases(records []Record, currentYear, offset int) []Record {
	threshold := currentYear - offset
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if y, ok := publicationYear(r); ok && y >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns one page of records. A page past the end is empty.
// Page numbers are compared against the page count so huge values cannot
// overflow the offset.
func Paginate(records []Record, p *facet.Page) []Record {
	if p == nil {
		return records
	}
	if p.Size <= 0 || p.Number < 1 {
		return []Record{}
	}
	pages := len(records) / p.Size
	if len(records)%p.Size != 0 {
		pages++
	}
	if p.Number > pages {
		return []Record{}
	}
	start := (p.Number - 1) * p.Size
	return records[start : start+min(p.Size, len(records)-start)]
}
