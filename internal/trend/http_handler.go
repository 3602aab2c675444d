package trend

import (
	"context"
	"errors"
	"net/http"

	"booktrend/internal/facet"
	"booktrend/internal/httpx"
	"booktrend/internal/logging"
	"booktrend/internal/platform/data4library"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the read-model routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/books/recommend", h.Recommend)
	mux.HandleFunc("GET /v1/books/hot-trend", h.HotTrend)
	mux.HandleFunc("GET /v1/books/loan-trend", h.LoanTrend)
	mux.HandleFunc("GET /v1/books/period-trend", h.PeriodTrend)
	mux.HandleFunc("GET /v1/genres/{subKdc}/week-trend", h.GenreWeekTrend)
	mux.HandleFunc("GET /v1/genres/{subKdc}/month-trend", h.GenreMonthTrend)
	mux.HandleFunc("GET /v1/genres/{subKdc}/this-week-trend", h.ThisWeekTrend)
	mux.HandleFunc("GET /v1/genres/{subKdc}/random", h.Random)
	mux.HandleFunc("GET /v1/genres/{subKdc}/new-trend", h.NewTrend)
}

func writeItems[T any](w http.ResponseWriter, r *http.Request, items []T) {
	httpx.JSONSuccess(w, r, items, map[string]any{"count": len(items)})
}

// writeError maps pipeline failures onto the response envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *facet.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message(), []httpx.ErrorDetail{
			{Field: ve.Field, Message: string(ve.Rule)},
		})
	case errors.Is(err, context.Canceled):
		logging.Debug().Str("request_id", httpx.RequestIDFrom(r)).Msg("client went away before the trend was ready")
	case errors.Is(err, data4library.ErrTimeout):
		httpx.JSONError(w, r, http.StatusRequestTimeout, "UPSTREAM_TIMEOUT", "The library statistics service did not answer in time", nil)
	case errors.Is(err, ErrUnknownLibrary):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "The library statistics service rejected the library code, check that it exists", []httpx.ErrorDetail{
			{Field: "libCode", Message: "LIBCODE_ERROR"},
		})
	case errors.Is(err, data4library.ErrUnavailable):
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "The library statistics service is unavailable", nil)
	default:
		logging.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("trend request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Recommend handles GET /v1/books/recommend
// @Summary Recommended books for an ISBN
// @Tags books
// @Produce json
// @Param isbn query string true "13 digit ISBN"
// @Success 200 {object} httpx.SuccessResponse{data=[]RecommendItem}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 408 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/recommend [get]
func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Recommend(r.Context(), r.URL.Query().Get("isbn"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToRecommendItems(records))
}

// HotTrend handles GET /v1/books/hot-trend
// @Summary Books rising fastest in loans yesterday
// @Tags books
// @Produce json
// @Success 200 {object} httpx.SuccessResponse{data=[]HotTrendItem}
// @Failure 408 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/hot-trend [get]
func (h *HTTPHandler) HotTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.HotTrend(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToHotTrendItems(records))
}

// LoanTrend handles GET /v1/books/loan-trend
// @Summary Popular loans narrowed by reader facets
// @Tags books
// @Produce json
// @Param weekMonth query string false "week or month"
// @Param peerAge query int false "reader age, 0-100"
// @Param ageRange query string false "age bucket"
// @Param gender query string false "man or woman"
// @Param genreCode query string false "2 digit KDC code"
// @Param region query string false "region code"
// @Param libCode query string false "6 digit library code"
// @Param maxSize query int false "maximum number of items"
// @Param page query int false "page number"
// @Param pageSize query int false "page size"
// @Success 200 {object} httpx.SuccessResponse{data=[]LoanItem}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 408 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/loan-trend [get]
func (h *HTTPHandler) LoanTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.LoanTrend(r.Context(), facet.RawFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToLoanItems(records))
}

// PeriodTrend handles GET /v1/books/period-trend
// @Summary Popular loans over a custom date range
// @Tags books
// @Produce json
// @Param startDt query string true "yyyy-mm-dd"
// @Param endDt query string true "yyyy-mm-dd, yesterday at the latest"
// @Success 200 {object} httpx.SuccessResponse{data=[]LoanItem}
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 408 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/period-trend [get]
func (h *HTTPHandler) PeriodTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.PeriodTrend(r.Context(), facet.RawFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToLoanItems(records))
}

// GenreWeekTrend handles GET /v1/genres/{subKdc}/week-trend
func (h *HTTPHandler) GenreWeekTrend(w http.ResponseWriter, r *http.Request) {
	h.genrePeriod(w, r, WeekDays)
}

// GenreMonthTrend handles GET /v1/genres/{subKdc}/month-trend
func (h *HTTPHandler) GenreMonthTrend(w http.ResponseWriter, r *http.Request) {
	h.genrePeriod(w, r, MonthDays)
}

func (h *HTTPHandler) genrePeriod(w http.ResponseWriter, r *http.Request, days int) {
	records, err := h.service.GenrePeriodToNow(r.Context(), r.PathValue("subKdc"), days, facet.RawFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToLoanItems(records))
}

// ThisWeekTrend handles GET /v1/genres/{subKdc}/this-week-trend
// @Summary Popular loans in a genre this week
// @Description Falls back to last week while this week's statistics are unpublished.
// @Tags genres
// @Produce json
// @Param subKdc path string true "2 digit KDC code"
// @Success 200 {object} httpx.SuccessResponse{data=[]LoanItem}
// @Router /v1/genres/{subKdc}/this-week-trend [get]
func (h *HTTPHandler) ThisWeekTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ThisWeekTrend(r.Context(), r.PathValue("subKdc"), facet.RawFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToLoanItems(records))
}

// Random handles GET /v1/genres/{subKdc}/random
func (h *HTTPHandler) Random(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Random(r.Context(), r.PathValue("subKdc"), facet.RawFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToRandomItems(records))
}

// NewTrend handles GET /v1/genres/{subKdc}/new-trend
// @Summary Recently published popular loans in a genre
// @Tags genres
// @Produce json
// @Param subKdc path string true "2 digit KDC code"
// @Param maxSize query int false "maximum number of items"
// @Success 200 {object} httpx.SuccessResponse{data=[]LoanItem}
// @Router /v1/genres/{subKdc}/new-trend [get]
func (h *HTTPHandler) NewTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.NewTrend(r.Context(), r.PathValue("subKdc"), facet.RawFromQuery(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeItems(w, r, ToLoanItems(records))
}
