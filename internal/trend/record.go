package trend

// Record is one catalog item as reported by the loan statistics API. Fields
// an endpoint does not report stay empty. Numeric-looking values (year,
// counts, ranks) are kept as the strings the API sent.
type Record struct {
	No           string
	Difference   string
	BaseWeekRank string
	PastWeekRank string
	Ranking      string

	Title           string
	Authors         string
	Publisher       string
	PublicationYear string
	ISBN13          string
	AdditionSymbol  string
	Vol             string
	ClassNo         string
	ClassName       string

	ImageURL  string
	LoanCount string
	DetailURL string
}

// Key is the duplicate key: title followed by the author string.
func (r Record) Key() string {
	return r.Title + r.Authors
}
