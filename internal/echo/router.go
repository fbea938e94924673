// Package echo serves canned responses for exercising ajax clients: fixed
// status codes, delayed replies, form echoes and chunked streams.
package echo

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Header names set on /echo responses.
const (
	HeaderContentType = "X-Echo-Content-Type"
	HeaderMethod      = "X-Echo-Method"
)

// MaxDelay caps /delay and /stream interval parameters.
const MaxDelay = 30 * time.Second

// NewRouter returns the echo routes:
//
//	GET|POST /status/{code}    respond with code
//	GET      /delay/{ms}       respond 200 after ms milliseconds
//	*        /echo             echo method, content type and body
//	GET      /stream/{chunks}  stream chunks, ?interval=ms between them
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status/{code}", handleStatus)
	r.Post("/status/{code}", handleStatus)
	r.Get("/delay/{ms}", handleDelay)
	r.HandleFunc("/echo", handleEcho)
	r.Get("/stream/{chunks}", handleStream)

	return r
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, "%d %s\n", code, http.StatusText(code))
}

func handleDelay(w http.ResponseWriter, r *http.Request) {
	d, ok := millis(chi.URLParam(r, "ms"))
	if !ok {
		http.Error(w, "invalid delay", http.StatusBadRequest)
		return
	}

	select {
	case <-time.After(d):
	case <-r.Context().Done():
		return
	}
	fmt.Fprintf(w, "delayed %s\n", d)
}

func handleEcho(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	w.Header().Set(HeaderMethod, r.Method)
	w.Header().Set(HeaderContentType, r.Header.Get("Content-Type"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(body)
}

func handleStream(w http.ResponseWriter, r *http.Request) {
	chunks, err := strconv.Atoi(chi.URLParam(r, "chunks"))
	if err != nil || chunks < 0 || chunks > 1000 {
		http.Error(w, "invalid chunk count", http.StatusBadRequest)
		return
	}
	interval, ok := millis(r.URL.Query().Get("interval"))
	if !ok {
		http.Error(w, "invalid interval", http.StatusBadRequest)
		return
	}

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for i := 0; i < chunks; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-time.After(interval):
			case <-r.Context().Done():
				return
			}
		}
		fmt.Fprintf(w, "chunk %d\n", i)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// millis parses a millisecond count; "" means zero.
func millis(s string) (time.Duration, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	d := time.Duration(n) * time.Millisecond
	if d > MaxDelay {
		return 0, false
	}
	return d, true
}
