package server

import (
	"sort"
	"sync"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	mu sync.RWMutex

	// Upload metrics
	uploadsTotal        int64
	uploadBytesTotal    int64
	uploadErrorsTotal   int64
	uploadDurationTotal time.Duration
	rejections          map[string]int64

	// Static file metrics
	servedTotal      int64
	servedBytesTotal int64

	// System metrics
	requestsTotal    int64
	requestErrors5xx int64
	requestErrors4xx int64

	startedAt time.Time
}

// NewMetrics returns an empty metrics set.
func NewMetrics() *Metrics {
	return &Metrics{
		rejections: make(map[string]int64),
		startedAt:  time.Now(),
	}
}

// RecordUpload records a stored image
func (m *Metrics) RecordUpload(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
	m.uploadDurationTotal += duration
}

// RecordRejection records an upload refused for a client-side reason
func (m *Metrics) RecordRejection(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[reason]++
}

// RecordUploadError records an upload that failed inside the server
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErrorsTotal++
}

// RecordServe records a stored file sent to a client
func (m *Metrics) RecordServe(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servedTotal++
	m.servedBytesTotal += bytes
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++

	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rejections := make([]RejectionCount, 0, len(m.rejections))
	for reason, n := range m.rejections {
		rejections = append(rejections, RejectionCount{Reason: reason, Count: n})
	}
	sort.Slice(rejections, func(i, j int) bool { return rejections[i].Reason < rejections[j].Reason })

	return MetricsSnapshot{
		UploadsTotal:        m.uploadsTotal,
		UploadBytesTotal:    m.uploadBytesTotal,
		UploadErrorsTotal:   m.uploadErrorsTotal,
		UploadAvgDurationMs: avgDuration(m.uploadDurationTotal, m.uploadsTotal),
		Rejections:          rejections,
		ServedTotal:         m.servedTotal,
		ServedBytesTotal:    m.servedBytesTotal,
		RequestsTotal:       m.requestsTotal,
		RequestErrors5xx:    m.requestErrors5xx,
		RequestErrors4xx:    m.requestErrors4xx,
		UptimeSeconds:       time.Since(m.startedAt).Seconds(),
	}
}

// RejectionCount is the number of uploads refused for one reason.
type RejectionCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	UploadsTotal        int64            `json:"uploads_total"`
	UploadBytesTotal    int64            `json:"upload_bytes_total"`
	UploadErrorsTotal   int64            `json:"upload_errors_total"`
	UploadAvgDurationMs float64          `json:"upload_avg_duration_ms"`
	Rejections          []RejectionCount `json:"rejections"`

	ServedTotal      int64 `json:"served_total"`
	ServedBytesTotal int64 `json:"served_bytes_total"`

	RequestsTotal    int64   `json:"requests_total"`
	RequestErrors5xx int64   `json:"request_errors_5xx"`
	RequestErrors4xx int64   `json:"request_errors_4xx"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// Rejected returns the rejection count for reason.
func (s MetricsSnapshot) Rejected(reason string) int64 {
	for _, r := range s.Rejections {
		if r.Reason == reason {
			return r.Count
		}
	}
	return 0
}

func avgDuration(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Milliseconds()) / float64(count)
}
