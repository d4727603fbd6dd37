package middleware

import (
	"net/http"
	"strconv"
	"time"
)

const processTimeHeader = "X-Process-Time"

// ProcessTime reports the handler duration in seconds. The header is written just before
// the status line so it reaches the client.
func ProcessTime() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &timingWriter{ResponseWriter: w, start: time.Now()}
			next.ServeHTTP(tw, r)
			tw.stamp()
		})
	}
}

type timingWriter struct {
	http.ResponseWriter
	start   time.Time
	stamped bool
}

func (t *timingWriter) stamp() {
	if t.stamped {
		return
	}
	t.stamped = true
	elapsed := time.Since(t.start).Seconds()
	t.Header().Set(processTimeHeader, strconv.FormatFloat(elapsed, 'f', 6, 64))
}

func (t *timingWriter) WriteHeader(code int) {
	t.stamp()
	t.ResponseWriter.WriteHeader(code)
}

func (t *timingWriter) Write(b []byte) (int, error) {
	t.stamp()
	return t.ResponseWriter.Write(b)
}

func (t *timingWriter) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
