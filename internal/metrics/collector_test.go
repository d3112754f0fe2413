package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter_LabelsSeparateSeries(t *testing.T) {
	c := NewCollector()
	a := c.Counter("test_total", "test counter", `outcome="answered"`)
	b := c.Counter("test_total", "test counter", `outcome="duplicate"`)

	a.Inc()
	a.Inc()
	b.Inc()

	if a.Value() != 2 || b.Value() != 1 {
		t.Errorf("expected 2 and 1, got %d and %d", a.Value(), b.Value())
	}
	if c.Counter("test_total", "test counter", `outcome="answered"`) != a {
		t.Error("same name+labels should return the same counter")
	}
}

func TestHistogram_BucketsCumulative(t *testing.T) {
	c := NewCollector()
	h := c.Histogram("test_seconds", "test histogram", []float64{1, 5, 10})

	h.Observe(0.5)
	h.Observe(3)
	h.Observe(20)

	if h.count != 3 {
		t.Errorf("expected count 3, got %d", h.count)
	}
	if h.buckets[0].count != 1 || h.buckets[1].count != 2 || h.buckets[2].count != 2 {
		t.Errorf("unexpected bucket counts: %+v", h.buckets)
	}
}

func TestHandler_Exposition(t *testing.T) {
	c := NewCollector()
	c.Counter("bridge_events_total", "events", `outcome="answered"`).Inc()
	c.Histogram("bridge_agent_seconds", "latency", []float64{1, 5}).Observe(2)

	rr := httptest.NewRecorder()
	c.Handler()(rr, httptest.NewRequest("GET", "/metrics", nil))

	body := rr.Body.String()
	for _, want := range []string{
		"# TYPE bridge_events_total counter",
		`bridge_events_total{outcome="answered"} 1`,
		"# TYPE bridge_agent_seconds histogram",
		`bridge_agent_seconds_bucket{le="5"} 1`,
		"bridge_agent_seconds_count 1",
		"slackbridge_uptime_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q in:\n%s", want, body)
		}
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
}
