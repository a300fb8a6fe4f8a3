package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRenderIncludesLabelledCounters(t *testing.T) {
	IncExtraction("pdf", "ok")
	IncExtraction("pdf", "ok")
	IncExtraction("image", "unsupported")
	IncAnalysisFailed("quota")
	IncUpload(400)

	out := Render()
	for _, want := range []string{
		`extraction_total{kind="pdf",outcome="ok"} 2`,
		`extraction_total{kind="image",outcome="unsupported"} 1`,
		`analysis_failures_total{reason="quota"} 1`,
		`upload_requests_total{status="400"} 1`,
		"# TYPE analysis_duration_ms histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCounterVecIgnoresWrongArity(t *testing.T) {
	v := newCounterVec("a", "b")
	v.Inc("only-one")
	if got := len(v.snapshot()); got != 0 {
		t.Fatalf("expected no series, got %d", got)
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)
	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}

	out := renderHistogram(t, snap)
	if !strings.Contains(out, `h_bucket{le="100"} 2`) || !strings.Contains(out, `h_bucket{le="+Inf"} 3`) {
		t.Fatalf("unexpected histogram text:\n%s", out)
	}
}

func renderHistogram(t *testing.T, snap histogramSnapshot) string {
	t.Helper()
	var buf bytes.Buffer
	writeHistogram(&buf, "h", "test", snap)
	return buf.String()
}

func TestObserveHTTPUsesRoutePattern(t *testing.T) {
	ObserveHTTP("POST", "/api/upload-resume", 400, 12*time.Millisecond)
	IncRateLimited()

	out := Render()
	for _, want := range []string{
		`http_requests_total{method="POST",route="/api/upload-resume",status="400"} 1`,
		"# TYPE http_request_duration_ms histogram",
		"http_rate_limited_total ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
