package trend

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"booktrend/internal/platform/data4library"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Meta    map[string]any    `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, up data4library.Fetcher, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	mux := http.NewServeMux()
	NewHTTPHandler(newTestService(up, thursday)).Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHTTPHandler_HotTrend(t *testing.T) {
	up := new(mockUpstream)
	up.On("Fetch", mock.Anything, "hotTrend", mock.Anything).Return(hotTrendDoc, nil)

	w, env := serve(t, up, "/v1/books/hot-trend")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.Len(t, env.Data, 2)
	assert.Equal(t, float64(2), env.Meta["count"])

	var item HotTrendItem
	require.NoError(t, json.Unmarshal(env.Data[0], &item))
	assert.Equal(t, "불편한 편의점", item.Title)
	assert.Equal(t, "12", item.Difference)
	assert.Equal(t, "https://data4library.kr/bookV?seq=1", item.DetailURL)
}

func TestHTTPHandler_GenreNewTrend(t *testing.T) {
	up := new(mockUpstream)
	up.On("Fetch", mock.Anything, "loanItemSrch", data4library.Query{"pageSize": "1200", "dtl_kdc": "32"}).Return(loanItemsDoc, nil)

	w, env := serve(t, up, "/v1/genres/32/new-trend?maxSize=1")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.Data, 1)

	var item LoanItem
	require.NoError(t, json.Unmarshal(env.Data[0], &item))
	assert.Equal(t, "세이노의 가르침", item.Title)
	assert.Equal(t, "1520", item.LoanCount)
}

func TestHTTPHandler_Random(t *testing.T) {
	up := new(mockUpstream)
	up.On("Fetch", mock.Anything, "loanItemSrch", mock.Anything).Return(loanItemsDoc, nil)

	w, env := serve(t, up, "/v1/genres/32/random?maxSize=3")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, env.Data, 3)
}

func TestHTTPHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		upErr    error
		status   int
		code     string
		ruleCode string
	}{
		{"invalid isbn", "/v1/books/recommend?isbn=12345678901a3", nil, http.StatusBadRequest, "VALIDATION_ERROR", "INVALID_ISBN"},
		{"invalid gender", "/v1/books/loan-trend?gender=other", nil, http.StatusBadRequest, "VALIDATION_ERROR", "INVALID_GENDER"},
		{"invalid genre path", "/v1/genres/abc/week-trend", nil, http.StatusBadRequest, "VALIDATION_ERROR", "INVALID_GENRE_CODE"},
		{"list size", "/v1/genres/81/month-trend?maxSize=500", nil, http.StatusBadRequest, "VALIDATION_ERROR", "LIST_SIZE_EXCEEDED"},
		{"upstream unavailable", "/v1/books/hot-trend", data4library.ErrUnavailable, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", ""},
		{"upstream timeout", "/v1/genres/81/this-week-trend", data4library.ErrTimeout, http.StatusRequestTimeout, "UPSTREAM_TIMEOUT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := new(mockUpstream)
			up.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.upErr)

			w, env := serve(t, up, tt.target)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			if tt.ruleCode != "" {
				require.Len(t, env.Error.Details, 1)
				assert.Equal(t, tt.ruleCode, env.Error.Details[0].Message)
				up.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHTTPHandler_UnknownLibraryCode(t *testing.T) {
	up := new(mockUpstream)
	up.On("Fetch", mock.Anything, "loanItemSrchByLib", mock.Anything).Return(nil, data4library.ErrRejected)

	w, env := serve(t, up, "/v1/books/loan-trend?libCode=999999")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Error.Code)
	assert.Contains(t, env.Error.Message, "library code")
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "libCode", env.Error.Details[0].Field)
	assert.Equal(t, "LIBCODE_ERROR", env.Error.Details[0].Message)
}

func TestHTTPHandler_PageBeyondEnd(t *testing.T) {
	up := new(mockUpstream)
	up.On("Fetch", mock.Anything, "loanItemSrch", mock.Anything).Return(loanItemsDoc, nil)

	w, env := serve(t, up, "/v1/genres/81/week-trend?page=922337203685477580&pageSize=100")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
}
