package trend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"booktrend/internal/facet"
	"booktrend/internal/logging"
	"booktrend/internal/platform/data4library"
)

// Upstream endpoints.
const (
	endpointRecommend   = "recommandList"
	endpointHotTrend    = "hotTrend"
	endpointLoanItems   = "loanItemSrch"
	endpointLibraryLoan = "loanItemSrchByLib"
)

// ErrUnknownLibrary is returned when the upstream rejects a library-scoped
// search, which in practice means the libCode does not exist.
var ErrUnknownLibrary = fmt.Errorf("%w: library code rejected", data4library.ErrUnavailable)

// Days covered by the genre week and month trends.
const (
	WeekDays  = 7
	MonthDays = 30
)

type Config struct {
	Location             *time.Location
	NewReleaseYearOffset int
	UnpublishedWeekdays  []time.Weekday
	PeriodPageSize       int
	NewReleasePageSize   int
	RecommendMin         int
	FetchTimeout         time.Duration
}

// Service runs the aggregation pipeline for every read-model:
// validate, build the query, fetch, normalize, dedupe, then filter or
// sample. It keeps no state between calls.
type Service struct {
	upstream data4library.Fetcher
	cfg      Config
	now      func() time.Time
}

func NewService(upstream data4library.Fetcher, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{upstream: upstream, cfg: cfg, now: time.Now}
}

func (s *Service) today() time.Time {
	return date(s.now().In(s.cfg.Location))
}

// fetch performs one upstream call under the fetch timeout and normalizes
// the document. Nothing normalized survives a cancelled request.
func (s *Service) fetch(ctx context.Context, endpoint string, q data4library.Query, ex Extractor) ([]Record, error) {
	fctx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	doc, err := s.upstream.Fetch(fctx, endpoint, q)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, data4library.ErrTimeout) {
			return nil, fmt.Errorf("%w: %v", data4library.ErrTimeout, err)
		}
		return nil, err
	}

	records, err := ex.Extract(doc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.Debug().Str("endpoint", endpoint).Str("extractor", ex.Name()).Int("records", len(records)).Msg("upstream page normalized")
	return records, nil
}

// Recommend returns books recommended for isbn. Mania recommendations come
// first; when they are fewer than RecommendMin after dedupe, reader
// recommendations are appended under the same duplicate set.
func (s *Service) Recommend(ctx context.Context, isbn string) ([]Record, error) {
	if err := facet.IsValidIsbn(isbn); err != nil {
		return nil, err
	}

	d := NewDeduper()
	mania, err := s.fetch(ctx, endpointRecommend, data4library.Query{"isbn13": isbn, "type": "mania"}, BookList)
	if err != nil {
		return nil, err
	}
	records := d.Add(mania)
	if len(records) >= s.cfg.RecommendMin {
		return records, nil
	}

	reader, err := s.fetch(ctx, endpointRecommend, data4library.Query{"isbn13": isbn, "type": "reader"}, BookList)
	if err != nil {
		return nil, err
	}
	return append(records, d.Add(reader)...), nil
}

// HotTrend returns yesterday's fast-rising loans.
func (s *Service) HotTrend(ctx context.Context) ([]Record, error) {
	yesterday := s.today().AddDate(0, 0, -1)
	records, err := s.fetch(ctx, endpointHotTrend, data4library.Query{"searchDt": yesterday.Format(dateLayout)}, HotTrendSnapshot)
	if err != nil {
		return nil, err
	}
	return Dedupe(records), nil
}

// LoanTrend returns popular loans narrowed by the caller's facets. weekMonth
// selects a relative window; otherwise the upstream default period applies.
func (s *Service) LoanTrend(ctx context.Context, raw facet.Raw) ([]Record, error) {
	f, err := facet.Build(raw)
	if err != nil {
		return nil, err
	}
	var w *Window
	if f.Period != facet.PeriodNone {
		rw := Relative(s.today(), f.Period)
		w = &rw
	}
	if f.Range != nil {
		if err := f.Range.CheckPublished(s.today()); err != nil {
			return nil, err
		}
		rw := FromRange(*f.Range)
		w = &rw
	}
	return s.period(ctx, f, w)
}

// PeriodTrend is LoanTrend over an explicit startDt/endDt range.
func (s *Service) PeriodTrend(ctx context.Context, raw facet.Raw) ([]Record, error) {
	f, err := facet.RequireRange(raw)
	if err != nil {
		return nil, err
	}
	if err := f.Range.CheckPublished(s.today()); err != nil {
		return nil, err
	}
	w := FromRange(*f.Range)
	return s.period(ctx, f, &w)
}

// GenrePeriodToNow returns a genre's popular loans over the last days days,
// excluding today.
func (s *Service) GenrePeriodToNow(ctx context.Context, subKdc string, days int, raw facet.Raw) ([]Record, error) {
	f, err := genreFilter(subKdc, raw)
	if err != nil {
		return nil, err
	}
	w := PeriodToNow(s.today(), days)
	return s.period(ctx, f, &w)
}

// ThisWeekTrend returns a genre's popular loans for the current week, or
// the previous one while this week is unpublished.
func (s *Service) ThisWeekTrend(ctx context.Context, subKdc string, raw facet.Raw) ([]Record, error) {
	f, err := genreFilter(subKdc, raw)
	if err != nil {
		return nil, err
	}
	w := ThisWeek(s.today(), s.cfg.UnpublishedWeekdays)
	return s.period(ctx, f, &w)
}

// Random returns up to maxSize genre books in random order, drawn from the
// first maxSize of a popular loans page.
func (s *Service) Random(ctx context.Context, subKdc string, raw facet.Raw) ([]Record, error) {
	f, err := genreFilter(subKdc, raw)
	if err != nil {
		return nil, err
	}
	if err := f.CheckMaxSize(s.cfg.PeriodPageSize); err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, endpointLoanItems, loanQuery(f, nil, s.cfg.PeriodPageSize), LoanItems)
	if err != nil {
		return nil, err
	}
	candidates := Cap(Dedupe(records), f.MaxSize)
	return RandomPick(candidates, len(candidates)), nil
}

// NewTrend returns a genre's popular loans published within the last
// NewReleaseYearOffset years.
func (s *Service) NewTrend(ctx context.Context, subKdc string, raw facet.Raw) ([]Record, error) {
	f, err := genreFilter(subKdc, raw)
	if err != nil {
		return nil, err
	}
	if err := f.CheckMaxSize(s.cfg.NewReleasePageSize); err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, endpointLoanItems, loanQuery(f, nil, s.cfg.NewReleasePageSize), LoanItems)
	if err != nil {
		return nil, err
	}
	fresh := NewReleases(Dedupe(records), s.today().Year(), s.cfg.NewReleaseYearOffset)
	return Paginate(Cap(fresh, f.MaxSize), f.Page), nil
}

func (s *Service) period(ctx context.Context, f facet.Filter, w *Window) ([]Record, error) {
	if err := f.CheckMaxSize(s.cfg.PeriodPageSize); err != nil {
		return nil, err
	}

	endpoint := endpointLoanItems
	if f.LibCode != "" {
		endpoint = endpointLibraryLoan
	}
	records, err := s.fetch(ctx, endpoint, loanQuery(f, w, s.cfg.PeriodPageSize), LoanItems)
	if err != nil {
		if endpoint == endpointLibraryLoan && errors.Is(err, data4library.ErrRejected) {
			return nil, fmt.Errorf("%w (libCode %s): %v", ErrUnknownLibrary, f.LibCode, err)
		}
		return nil, err
	}
	return Paginate(Cap(Dedupe(records), f.MaxSize), f.Page), nil
}

// genreFilter validates the path genre and the paging facets genre
// read-models accept. Other facets are ignored.
func genreFilter(subKdc string, raw facet.Raw) (facet.Filter, error) {
	kdc, err := facet.RequireGenre(subKdc)
	if err != nil {
		return facet.Filter{}, err
	}
	f, err := facet.Build(facet.Raw{MaxSize: raw.MaxSize, Page: raw.Page, PageSize: raw.PageSize})
	if err != nil {
		return facet.Filter{}, err
	}
	f.GenreCode = kdc
	return f, nil
}

func loanQuery(f facet.Filter, w *Window, pageSize int) data4library.Query {
	q := data4library.Query{"pageSize": strconv.Itoa(pageSize)}
	if w != nil {
		q.Set("startDt", w.StartDt())
		q.Set("endDt", w.EndDt())
	}
	if f.Age != nil {
		q.Set("from_age", strconv.Itoa(f.Age.From))
		q.Set("to_age", strconv.Itoa(f.Age.To))
	}
	q.Set("age", f.AgeRange)
	q.Set("gender", f.Gender)
	q.Set("dtl_kdc", f.GenreCode)
	q.Set("region", f.Region)
	q.Set("libCode", f.LibCode)
	return q
}
