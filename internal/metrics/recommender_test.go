package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizeDrops_Increments(t *testing.T) {
	before := testutil.ToFloat64(NormalizeDroppedTotal.WithLabelValues("missing_id"))

	var d NormalizeDrops
	d.Dropped("missing_id")
	d.Dropped("missing_id")

	after := testutil.ToFloat64(NormalizeDroppedTotal.WithLabelValues("missing_id"))
	if after-before != 2 {
		t.Errorf("expected +2 drops, got %f", after-before)
	}
}

func TestRegisterRecommenderMetrics_Idempotent(t *testing.T) {
	RegisterRecommenderMetrics()
	RegisterRecommenderMetrics() // must not panic on duplicate registration
}
