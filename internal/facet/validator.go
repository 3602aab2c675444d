package facet

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Upstream enumerations.
var (
	AgeRangeCodes = []string{"0", "6", "8", "14", "20", "30", "40", "50", "60"}

	// RegionCodes are the top-level (si/do) region codes of the loan
	// statistics API.
	RegionCodes = []string{
		"11", "21", "22", "23", "24", "25", "26", "29",
		"31", "32", "33", "34", "35", "36", "37", "38", "39",
	}
)

const (
	dateLayout = "2006-01-02"
	maxInt     = int(^uint(0) >> 1)
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	isbn13Pattern  = regexp.MustCompile(`^[0-9]{13}$`)
	libCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	genrePattern   = regexp.MustCompile(`^[0-9]{2}$`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("isbn13", matches(isbn13Pattern))
		_ = validate.RegisterValidation("libcode", matches(libCodePattern))
		_ = validate.RegisterValidation("genre", matches(genrePattern))
		_ = validate.RegisterValidation("peer_age", intBetween(0, 100))
		_ = validate.RegisterValidation("positive_int", intBetween(1, maxInt))
		_ = validate.RegisterValidation("non_negative_int", intBetween(0, maxInt))
	})
	return validate
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func intBetween(min, max int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= min && n <= max
	}
}

func check(raw, tag string, rule Rule, field string) error {
	if err := getValidator().Var(raw, tag); err != nil {
		return newError(rule, field)
	}
	return nil
}

func oneOf(values []string) string {
	return "oneof=" + strings.Join(values, " ")
}

// IsValidIsbn accepts exactly 13 ASCII digits.
func IsValidIsbn(raw string) error {
	return check(raw, "isbn13", InvalidIsbn, "isbn")
}

func IsValidWeekMonth(raw string) error {
	return check(raw, "oneof=week month", InvalidWeekMonth, "weekMonth")
}

// IsValidAge accepts an integer in [0,100]. Unparseable input fails the same
// way as out-of-range input.
func IsValidAge(raw string) error {
	return check(raw, "peer_age", InvalidAge, "peerAge")
}

func IsValidAgeRange(raw string) error {
	return check(raw, oneOf(AgeRangeCodes), InvalidAgeRange, "ageRange")
}

func IsValidGender(raw string) error {
	return check(raw, "oneof=man woman", InvalidGender, "gender")
}

// IsValidGenreCode accepts any two digit KDC code.
func IsValidGenreCode(raw string) error {
	return check(raw, "genre", InvalidGenreCode, "genreCode")
}

func IsValidRegionCode(raw string) error {
	return check(raw, oneOf(RegionCodes), InvalidRegionCode, "region")
}

// IsValidLibCode accepts exactly 6 ASCII digits.
func IsValidLibCode(raw string) error {
	return check(raw, "libcode", InvalidLibCode, "libCode")
}

func IsValidPageNum(raw string) error {
	return check(raw, "positive_int", InvalidPageNum, "page")
}

func IsValidBookPageNum(raw string) error {
	return check(raw, "positive_int", InvalidBookPageNum, "bookPage")
}

// IsValidDate accepts a calendar date in yyyy-mm-dd form.
func IsValidDate(raw string) error {
	return check(raw, "datetime="+dateLayout, InvalidSearchDateFormat, "date")
}

// IsValidMaxSize accepts a non-negative integer.
func IsValidMaxSize(raw string) error {
	return check(raw, "non_negative_int", InvalidMaxSize, "maxSize")
}
