package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordsDropped_CountsPerLabel(t *testing.T) {
	before := testutil.ToFloat64(RecordsDropped.WithLabelValues("loan_items", "missing_title"))
	RecordsDropped.WithLabelValues("loan_items", "missing_title").Inc()
	after := testutil.ToFloat64(RecordsDropped.WithLabelValues("loan_items", "missing_title"))

	assert.Equal(t, before+1, after)
}

func TestDuplicatesRemoved_Add(t *testing.T) {
	before := testutil.ToFloat64(DuplicatesRemoved)
	DuplicatesRemoved.Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(DuplicatesRemoved))
}
