package facet

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultPageSize applies when a caller asks for a page without a size.
const DefaultPageSize = 10

// Period selects a relative loan statistics window.
type Period string

const (
	PeriodNone  Period = ""
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Raw is the unvalidated facet bag as it arrives from a request. An empty
// string means the facet was not supplied.
type Raw struct {
	WeekMonth string
	PeerAge   string
	AgeRange  string
	Gender    string
	GenreCode string
	Region    string
	LibCode   string
	StartDt   string
	EndDt     string
	MaxSize   string
	Page      string
	PageSize  string
}

// RawFromQuery reads the facet vocabulary from URL query parameters.
func RawFromQuery(q url.Values) Raw {
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }
	return Raw{
		WeekMonth: get("weekMonth"),
		PeerAge:   get("peerAge"),
		AgeRange:  get("ageRange"),
		Gender:    get("gender"),
		GenreCode: get("genreCode"),
		Region:    get("region"),
		LibCode:   get("libCode"),
		StartDt:   get("startDt"),
		EndDt:     get("endDt"),
		MaxSize:   get("maxSize"),
		Page:      get("page"),
		PageSize:  get("pageSize"),
	}
}

// AgeWindow is an inclusive age interval clipped to [0,100].
type AgeWindow struct {
	From int
	To   int
}

// DateRange is a caller-supplied calendar range, Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type Page struct {
	Number int
	Size   int
}

// Filter holds validated, typed facets. A nil pointer or empty string means
// the facet is absent.
type Filter struct {
	Period    Period
	Age       *AgeWindow
	AgeRange  string
	Gender    string // "0" man, "1" woman
	GenreCode string
	Region    string
	LibCode   string
	Range     *DateRange
	MaxSize   *int
	Page      *Page
}

// Build validates every supplied facet and maps it into its typed slot.
// The first failing facet aborts the build.
func Build(raw Raw) (Filter, error) {
	var f Filter

	if raw.WeekMonth != "" {
		if err := IsValidWeekMonth(raw.WeekMonth); err != nil {
			return Filter{}, err
		}
		f.Period = Period(raw.WeekMonth)
	}

	if raw.PeerAge != "" {
		if err := IsValidAge(raw.PeerAge); err != nil {
			return Filter{}, err
		}
		age, _ := strconv.Atoi(raw.PeerAge)
		f.Age = &AgeWindow{From: max(age-2, 0), To: min(age+2, 100)}
	}

	if raw.AgeRange != "" {
		if err := IsValidAgeRange(raw.AgeRange); err != nil {
			return Filter{}, err
		}
		f.AgeRange = raw.AgeRange
	}

	if raw.Gender != "" {
		if err := IsValidGender(raw.Gender); err != nil {
			return Filter{}, err
		}
		f.Gender = "1"
		if raw.Gender == "man" {
			f.Gender = "0"
		}
	}

	if raw.GenreCode != "" {
		if err := IsValidGenreCode(raw.GenreCode); err != nil {
			return Filter{}, err
		}
		f.GenreCode = raw.GenreCode
	}

	if raw.Region != "" {
		if err := IsValidRegionCode(raw.Region); err != nil {
			return Filter{}, err
		}
		f.Region = raw.Region
	}

	if raw.LibCode != "" {
		if err := IsValidLibCode(raw.LibCode); err != nil {
			return Filter{}, err
		}
		f.LibCode = raw.LibCode
	}

	if raw.StartDt != "" || raw.EndDt != "" {
		r, err := buildRange(raw.StartDt, raw.EndDt)
		if err != nil {
			return Filter{}, err
		}
		f.Range = r
	}

	if raw.MaxSize != "" {
		if err := IsValidMaxSize(raw.MaxSize); err != nil {
			return Filter{}, err
		}
		n, _ := strconv.Atoi(raw.MaxSize)
		f.MaxSize = &n
	}

	if raw.Page != "" || raw.PageSize != "" {
		p, err := buildPage(raw.Page, raw.PageSize)
		if err != nil {
			return Filter{}, err
		}
		f.Page = p
	}

	return f, nil
}

func buildRange(start, end string) (*DateRange, error) {
	if start == "" || end == "" {
		return nil, newError(InvalidSearchDateFormat, "startDt/endDt")
	}
	if err := IsValidDate(start); err != nil {
		return nil, newError(InvalidSearchDateFormat, "startDt")
	}
	if err := IsValidDate(end); err != nil {
		return nil, newError(InvalidSearchDateFormat, "endDt")
	}
	s, _ := time.Parse(dateLayout, start)
	e, _ := time.Parse(dateLayout, end)
	if s.After(e) {
		return nil, newError(InvalidSearchDate, "startDt")
	}
	return &DateRange{Start: s, End: e}, nil
}

func buildPage(number, size string) (*Page, error) {
	p := &Page{Number: 1, Size: DefaultPageSize}
	if number != "" {
		if err := IsValidPageNum(number); err != nil {
			return nil, err
		}
		p.Number, _ = strconv.Atoi(number)
	}
	if size != "" {
		if err := check(size, "positive_int", InvalidPageNum, "pageSize"); err != nil {
			return nil, err
		}
		p.Size, _ = strconv.Atoi(size)
	}
	return p, nil
}

// RequireGenre validates a mandatory genre (sub KDC) code.
func RequireGenre(raw string) (string, error) {
	if err := IsValidGenreCode(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// CheckPublished rejects a range ending after yesterday. Loan statistics for
// today are not published yet.
func (d DateRange) CheckPublished(today time.Time) error {
	yesterday := today.AddDate(0, 0, -1).Format(dateLayout)
	if d.End.Format(dateLayout) > yesterday {
		return newError(InvalidSearchDate, "endDt")
	}
	return nil
}

// CheckMaxSize rejects a maxSize larger than limit, the number of rows
// requested from the upstream API.
func (f Filter) CheckMaxSize(limit int) error {
	if f.MaxSize != nil && *f.MaxSize > limit {
		return newError(ListSizeExceeded, "maxSize")
	}
	return nil
}

// RequireRange is Build for read-models that need an explicit date range.
func RequireRange(raw Raw) (Filter, error) {
	if raw.StartDt == "" && raw.EndDt == "" {
		return Filter{}, newError(InvalidSearchDateFormat, "startDt/endDt")
	}
	return Build(raw)
}
