package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	analysisStartedTotal   atomic.Uint64
	analysisCompletedTotal atomic.Uint64
	analysisFailedTotal    atomic.Uint64
	ocrFallbackTotal       atomic.Uint64
	rateLimitedTotal       atomic.Uint64

	analysisDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})

	extractionTotal      = newCounterVec("kind", "outcome")
	analysisFailureTotal = newCounterVec("reason")
	uploadTotal          = newCounterVec("status")
	httpRequestsTotal    = newCounterVec("method", "route", "status")
	httpDuration         = newHistogram([]float64{5, 25, 100, 250, 1000, 5000, 30000, 120000})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Add(1)
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompletedTotal.Add(1)
}

// IncAnalysisFailed increments the failed counter, labelled by reason
// (validation, api_key, quota, rate_limit, empty, malformed, failed).
func IncAnalysisFailed(reason string) {
	analysisFailedTotal.Add(1)
	analysisFailureTotal.Inc(reason)
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// IncExtraction counts one extraction attempt by document kind and outcome.
func IncExtraction(kind, outcome string) {
	extractionTotal.Inc(kind, outcome)
}

// IncOCRFallback counts PDFs whose text layer was empty and went to OCR.
func IncOCRFallback() {
	ocrFallbackTotal.Add(1)
}

// IncUpload counts upload responses by HTTP status.
func IncUpload(status int) {
	uploadTotal.Inc(strconv.Itoa(status))
}

// ObserveHTTP records one served request. route is the matched route pattern,
// never the raw path.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.Inc(method, route, strconv.Itoa(status))
	httpDuration.Observe(float64(elapsed.Microseconds()) / 1000.0)
}

// IncRateLimited counts requests rejected by the rate limiter.
func IncRateLimited() {
	rateLimitedTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analysis_started_total", "Total analyses started", analysisStartedTotal.Load())
	writeCounter(&buf, "analysis_completed_total", "Total analyses completed", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Total analyses failed", analysisFailedTotal.Load())
	writeCounterVec(&buf, "analysis_failures_total", "Analysis failures by reason", analysisFailureTotal)
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
	writeCounterVec(&buf, "extraction_total", "Text extractions by document kind and outcome", extractionTotal)
	writeCounter(&buf, "extraction_ocr_fallback_total", "PDFs sent to OCR after an empty text layer", ocrFallbackTotal.Load())
	writeCounterVec(&buf, "upload_requests_total", "Upload responses by status", uploadTotal)
	writeCounterVec(&buf, "http_requests_total", "HTTP requests by method, route and status", httpRequestsTotal)
	writeHistogram(&buf, "http_request_duration_ms", "HTTP request latency in milliseconds", httpDuration.Snapshot())
	writeCounter(&buf, "http_rate_limited_total", "Requests rejected by the rate limiter", rateLimitedTotal.Load())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	labels []string
	values map[string]uint64
}

func newCounterVec(labels ...string) *counterVec {
	return &counterVec{labels: labels, values: map[string]uint64{}}
}

// Inc adds one to the series identified by values, given in label order.
func (v *counterVec) Inc(values ...string) {
	if len(values) != len(v.labels) {
		return
	}
	key := strings.Join(values, "\x00")
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	snap := v.snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values := strings.Split(k, "\x00")
		pairs := make([]string, len(values))
		for i, val := range values {
			pairs[i] = fmt.Sprintf("%s=%q", v.labels[i], val)
		}
		fmt.Fprintf(buf, "%s{%s} %d\n", name, strings.Join(pairs, ","), snap[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
