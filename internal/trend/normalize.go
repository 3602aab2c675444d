package trend

import (
	"bytes"
	"fmt"
	"strconv"

	"booktrend/internal/logging"
	"booktrend/internal/metrics"
	"booktrend/internal/platform/data4library"

	"github.com/goccy/go-json"
)

// Extractor turns one endpoint family's response document into records.
// Malformed records are skipped; only a document that is not the expected
// shape at the top level is an error.
type Extractor interface {
	Name() string
	Extract(doc data4library.RawDocument) ([]Record, error)
}

var (
	// BookList reads recommandList documents: docs[].book.
	BookList Extractor = bookListExtractor{}
	// HotTrendSnapshot reads hotTrend documents: results[].result.docs[].doc.
	HotTrendSnapshot Extractor = hotTrendExtractor{}
	// LoanItems reads loanItemSrch and loanItemSrchByLib documents: docs[].doc.
	LoanItems Extractor = loanItemsExtractor{}
)

// text accepts a JSON string, number or null. The API is not consistent
// about quoting numbers.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("not a string or number: %s", b)
		}
		*t = text(b)
		return nil
	}
}

type rawBook struct {
	No              text `json:"no"`
	Difference      text `json:"difference"`
	BaseWeekRank    text `json:"baseWeekRank"`
	PastWeekRank    text `json:"pastWeekRank"`
	Ranking         text `json:"ranking"`
	BookName        text `json:"bookname"`
	Authors         text `json:"authors"`
	Publisher       text `json:"publisher"`
	PublicationYear text `json:"publication_year"`
	ISBN13          text `json:"isbn13"`
	AdditionSymbol  text `json:"addition_symbol"`
	Vol             text `json:"vol"`
	ClassNo         text `json:"class_no"`
	ClassName       text `json:"class_nm"`
	BookImageURL    text `json:"bookImageURL"`
	LoanCount       text `json:"loan_count"`
	BookDtlURL      text `json:"bookDtlUrl"`
}

func (b rawBook) record() Record {
	return Record{
		No:              string(b.No),
		Difference:      string(b.Difference),
		BaseWeekRank:    string(b.BaseWeekRank),
		PastWeekRank:    string(b.PastWeekRank),
		Ranking:         string(b.Ranking),
		Title:           string(b.BookName),
		Authors:         string(b.Authors),
		Publisher:       string(b.Publisher),
		PublicationYear: string(b.PublicationYear),
		ISBN13:          string(b.ISBN13),
		AdditionSymbol:  string(b.AdditionSymbol),
		Vol:             string(b.Vol),
		ClassNo:         string(b.ClassNo),
		ClassName:       string(b.ClassName),
		ImageURL:        string(b.BookImageURL),
		LoanCount:       string(b.LoanCount),
		DetailURL:       string(b.BookDtlURL),
	}
}

// collector accumulates records for one extractor run and accounts for the
// ones it has to drop.
type collector struct {
	extractor string
	records   []Record
}

func (c *collector) drop(reason string, index int, err error) {
	metrics.RecordsDropped.WithLabelValues(c.extractor, reason).Inc()
	ev := logging.Debug().Str("extractor", c.extractor).Str("reason", reason).Int("index", index)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("skipping malformed record")
}

// add decodes the record wrapped under key in element.
func (c *collector) add(element json.RawMessage, key string, index int) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(element, &wrapper); err != nil {
		c.drop("shape", index, err)
		return
	}
	inner, ok := wrapper[key]
	if !ok || isNull(inner) {
		c.drop("shape", index, nil)
		return
	}
	var b rawBook
	if err := json.Unmarshal(inner, &b); err != nil {
		c.drop("field", index, err)
		return
	}
	r := b.record()
	if r.Title == "" || r.Authors == "" {
		c.drop("identity", index, nil)
		return
	}
	c.records = append(c.records, r)
}

func isNull(b json.RawMessage) bool {
	return len(bytes.TrimSpace(b)) == 0 || bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// docsList decodes the top-level docs array. A missing array is an empty
// result, not an error: the API omits it when nothing matched.
func docsList(doc data4library.RawDocument) ([]json.RawMessage, error) {
	var top struct {
		Docs []json.RawMessage `json:"docs"`
	}
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", data4library.ErrBadDocument, err)
	}
	return top.Docs, nil
}

type bookListExtractor struct{}

func (bookListExtractor) Name() string { return "book_list" }

func (e bookListExtractor) Extract(doc data4library.RawDocument) ([]Record, error) {
	docs, err := docsList(doc)
	if err != nil {
		return nil, err
	}
	c := &collector{extractor: e.Name(), records: make([]Record, 0, len(docs))}
	for i, el := range docs {
		c.add(el, "book", i)
	}
	return c.records, nil
}

type loanItemsExtractor struct{}

func (loanItemsExtractor) Name() string { return "loan_items" }

func (e loanItemsExtractor) Extract(doc data4library.RawDocument) ([]Record, error) {
	docs, err := docsList(doc)
	if err != nil {
		return nil, err
	}
	c := &collector{extractor: e.Name(), records: make([]Record, 0, len(docs))}
	for i, el := range docs {
		c.add(el, "doc", i)
	}
	return c.records, nil
}

type hotTrendExtractor struct{}

func (hotTrendExtractor) Name() string { return "hot_trend" }

// Extract flattens every daily snapshot in order. A snapshot that does not
// carry a result.docs list is skipped as a whole.
func (e hotTrendExtractor) Extract(doc data4library.RawDocument) ([]Record, error) {
	var top struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", data4library.ErrBadDocument, err)
	}

	c := &collector{extractor: e.Name()}
	index := 0
	for i, raw := range top.Results {
		var snapshot struct {
			Result *struct {
				Docs []json.RawMessage `json:"docs"`
			} `json:"result"`
		}
		if err := json.Unmarshal(raw, &snapshot); err != nil || snapshot.Result == nil {
			c.drop("snapshot", i, err)
			continue
		}
		for _, el := range snapshot.Result.Docs {
			c.add(el, "doc", index)
			index++
		}
	}
	return c.records, nil
}

// publicationYear parses the record year, reporting false for anything that
// is not an integer.
func publicationYear(r Record) (int, bool) {
	y, err := strconv.Atoi(r.PublicationYear)
	if err != nil {
		return 0, false
	}
	return y, true
}
