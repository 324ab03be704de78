package audit

import "net/http"

// statusRecorder captures the status code written by the handler. Optional
// interfaces (Flusher, Hijacker) are reachable through Unwrap via
// http.ResponseController.
type statusRecorder struct {
	http.ResponseWriter
	entry *Entry
}

func wrapResponseWriter(w http.ResponseWriter, e *Entry) http.ResponseWriter {
	return &statusRecorder{ResponseWriter: w, entry: e}
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.entry.Status == 0 {
		w.entry.Status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
