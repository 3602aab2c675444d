package trend

// Bibliographic fields shared by every read-model.
type Bibliographic struct {
	Title           string `json:"title"`
	Authors         string `json:"authors"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear string `json:"publication_year,omitempty"`
	ISBN13          string `json:"isbn13,omitempty"`
	Vol             string `json:"vol,omitempty"`
	ClassNo         string `json:"class_no,omitempty"`
	ClassName       string `json:"class_name,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
}

func bibliographic(r Record) Bibliographic {
	return Bibliographic{
		Title:           r.Title,
		Authors:         r.Authors,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		ISBN13:          r.ISBN13,
		Vol:             r.Vol,
		ClassNo:         r.ClassNo,
		ClassName:       r.ClassName,
		ImageURL:        r.ImageURL,
	}
}

type RecommendItem struct {
	Bibliographic
}

type HotTrendItem struct {
	No             string `json:"no,omitempty"`
	Difference     string `json:"difference,omitempty"`
	BaseWeekRank   string `json:"base_week_rank,omitempty"`
	PastWeekRank   string `json:"past_week_rank,omitempty"`
	AdditionSymbol string `json:"addition_symbol,omitempty"`
	DetailURL      string `json:"detail_url,omitempty"`
	Bibliographic
}

// LoanItem is the period, this-week and new-release trend entry.
type LoanItem struct {
	No             string `json:"no,omitempty"`
	Ranking        string `json:"ranking,omitempty"`
	AdditionSymbol string `json:"addition_symbol,omitempty"`
	LoanCount      string `json:"loan_count,omitempty"`
	DetailURL      string `json:"detail_url,omitempty"`
	Bibliographic
}

type RandomItem struct {
	DetailURL string `json:"detail_url,omitempty"`
	Bibliographic
}

func mapAll[T any](records []Record, fn func(Record) T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		out = append(out, fn(r))
	}
	return out
}

func ToRecommendItems(records []Record) []RecommendItem {
	return mapAll(records, func(r Record) RecommendItem {
		return RecommendItem{Bibliographic: bibliographic(r)}
	})
}

func ToHotTrendItems(records []Record) []HotTrendItem {
	return mapAll(records, func(r Record) HotTrendItem {
		return HotTrendItem{
			No:             r.No,
			Difference:     r.Difference,
			BaseWeekRank:   r.BaseWeekRank,
			PastWeekRank:   r.PastWeekRank,
			AdditionSymbol: r.AdditionSymbol,
			DetailURL:      r.DetailURL,
			Bibliographic:  bibliographic(r),
		}
	})
}

func ToLoanItems(records []Record) []LoanItem {
	return mapAll(records, func(r Record) LoanItem {
		return LoanItem{
			No:             r.No,
			Ranking:        r.Ranking,
			AdditionSymbol: r.AdditionSymbol,
			LoanCount:      r.LoanCount,
			DetailURL:      r.DetailURL,
			Bibliographic:  bibliographic(r),
		}
	})
}

func ToRandomItems(records []Record) []RandomItem {
	return mapAll(records, func(r Record) RandomItem {
		return RandomItem{DetailURL: r.DetailURL, Bibliographic: bibliographic(r)}
	})
}
