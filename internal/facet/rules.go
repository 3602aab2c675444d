package facet

import "fmt"

// Rule identifies the specific validation rule a raw parameter violated.
type Rule string

const (
	InvalidIsbn             Rule = "INVALID_ISBN"
	InvalidWeekMonth        Rule = "INVALID_WEEK_MONTH"
	InvalidAge              Rule = "INVALID_AGE"
	InvalidAgeRange         Rule = "INVALID_AGE_RANGE"
	InvalidGender           Rule = "INVALID_GENDER"
	InvalidGenreCode        Rule = "INVALID_GENRE_CODE"
	InvalidRegionCode       Rule = "INVALID_REGION_CODE"
	InvalidLibCode          Rule = "INVALID_LIB_CODE"
	InvalidPageNum          Rule = "INVALID_PAGE_NUM"
	InvalidBookPageNum      Rule = "INVALID_BOOK_PAGE_NUM"
	InvalidSearchDateFormat Rule = "INVALID_SEARCH_DT_FORMAT"
	InvalidSearchDate       Rule = "INVALID_SEARCH_DT_DATE"
	InvalidMaxSize          Rule = "INVALID_MAX_SIZE"
	ListSizeExceeded        Rule = "LIST_SIZE_EXCEEDED"
)

var ruleMessages = map[Rule]string{
	InvalidIsbn:             "isbn must be a 13 digit number",
	InvalidWeekMonth:        "weekMonth must be 'week' or 'month'",
	InvalidAge:              "age must be a number between 0 and 100",
	InvalidAgeRange:         "ageRange must be one of 0, 6, 8, 14, 20, 30, 40, 50, 60",
	InvalidGender:           "gender must be 'man' or 'woman'",
	InvalidGenreCode:        "genre code must be a 2 digit KDC code",
	InvalidRegionCode:       "region must be a known region code",
	InvalidLibCode:          "library code must be a 6 digit number",
	InvalidPageNum:          "page number must be 1 or greater",
	InvalidBookPageNum:      "book page count must be 1 or greater",
	InvalidSearchDateFormat: "date must use the yyyy-mm-dd format",
	InvalidSearchDate:       "date range is invalid (data is available up to yesterday)",
	InvalidMaxSize:          "maxSize must be a non-negative number",
	ListSizeExceeded:        "requested list size is too large",
}

// ValidationError reports a raw parameter that failed its rule. Invalid
// values never make it into a Filter.
type ValidationError struct {
	Rule  Rule
	Field string
}

func newError(rule Rule, field string) *ValidationError {
	return &ValidationError{Rule: rule, Field: field}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message())
}

// Message is the caller-facing text for the rule.
func (e *ValidationError) Message() string {
	if msg, ok := ruleMessages[e.Rule]; ok {
		return msg
	}
	return "invalid parameter"
}

// Is matches any *ValidationError carrying the same rule, so callers can
// write errors.Is(err, &facet.ValidationError{Rule: facet.InvalidIsbn}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Rule == e.Rule
}
