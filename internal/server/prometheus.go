// prometheus.go - Prometheus text exposition of the in-process metrics
package server

import (
	"fmt"
	"net/http"
	"strings"
)

// metricsHandler renders the metrics snapshot in Prometheus text format.
func metricsHandler(m *Metrics, store *DiskStore, build BuildInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		var output strings.Builder

		writeMetric := func(name, help, kind string, value any) {
			fmt.Fprintf(&output, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
		}

		output.WriteString("# HELP imagedrop_info Application version info\n")
		output.WriteString("# TYPE imagedrop_info gauge\n")
		fmt.Fprintf(&output, "imagedrop_info{version=\"%s\",commit=\"%s\"} 1\n\n",
			prometheusLabel(build.Version), prometheusLabel(build.Commit))

		writeMetric("imagedrop_requests_total", "Total number of HTTP requests", "counter", snapshot.RequestsTotal)
		writeMetric("imagedrop_request_errors_4xx_total", "HTTP responses with a 4xx status", "counter", snapshot.RequestErrors4xx)
		writeMetric("imagedrop_request_errors_5xx_total", "HTTP responses with a 5xx status", "counter", snapshot.RequestErrors5xx)
		writeMetric("imagedrop_uploads_total", "Images stored", "counter", snapshot.UploadsTotal)
		writeMetric("imagedrop_upload_bytes_total", "Bytes of images stored", "counter", snapshot.UploadBytesTotal)
		writeMetric("imagedrop_upload_errors_total", "Uploads that failed with a server error", "counter", snapshot.UploadErrorsTotal)

		output.WriteString("# HELP imagedrop_upload_rejections_total Uploads refused by reason\n")
		output.WriteString("# TYPE imagedrop_upload_rejections_total counter\n")
		for _, rc := range snapshot.Rejections {
			fmt.Fprintf(&output, "imagedrop_upload_rejections_total{reason=\"%s\"} %d\n", prometheusLabel(rc.Reason), rc.Count)
		}
		output.WriteString("\n")

		writeMetric("imagedrop_served_total", "Stored images sent to clients", "counter", snapshot.ServedTotal)
		writeMetric("imagedrop_served_bytes_total", "Bytes of stored images sent to clients", "counter", snapshot.ServedBytesTotal)

		if files, bytes, err := store.Usage(); err == nil {
			writeMetric("imagedrop_storage_files", "Number of stored images", "gauge", files)
			writeMetric("imagedrop_storage_bytes", "Total size of stored images", "gauge", bytes)
		}

		writeMetric("imagedrop_uptime_seconds", "Application uptime in seconds", "gauge", fmt.Sprintf("%.0f", snapshot.UptimeSeconds))

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.String()))
	}
}

// prometheusLabel escapes a label value.
func prometheusLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "\n", "\\n")
	return value
}
