package ajax

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bft-labs/ajaxclient/internal/echo"
	"github.com/bft-labs/ajaxclient/pkg/socket"
	"github.com/bft-labs/ajaxclient/pkg/status"
)

// runRequest dispatches through the net/http socket and waits for complete.
func runRequest(t *testing.T, cfg Config, dispatch func(c *Client) bool) (*Client, *recorder) {
	t.Helper()

	rec := &recorder{}
	done := make(chan struct{})
	h := rec.handlers()
	complete := h.Complete
	h.Complete = func(ev socket.Event) {
		complete(ev)
		close(done)
	}

	c := New(cfg, WithHandlers(h))
	if !dispatch(c) {
		t.Fatal("dispatch refused")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for complete")
	}
	return c, rec
}

func TestHTTP_Get(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	tests := []struct {
		path string
		want status.Status
	}{
		{"/status/200", status.Success},
		{"/status/404", status.Failure},
		{"/status/500", status.Failure},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, rec := runRequest(t, DefaultConfig(), func(c *Client) bool {
				return c.Get(ts.URL + tt.path)
			})
			if c.Status() != tt.want {
				t.Errorf("status = %v, want %v (outcomes %v)", c.Status(), tt.want, rec.got())
			}
			if rec.count(OutcomeComplete) != 1 {
				t.Errorf("complete fired %d times", rec.count(OutcomeComplete))
			}
			if c.InFlight() {
				t.Error("client still in flight")
			}
		})
	}
}

func TestHTTP_Post(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	c, rec := runRequest(t, DefaultConfig(), func(c *Client) bool {
		return c.Post(ts.URL + "/echo?name=ajax&n=1")
	})

	if c.StatusName() != "Success" {
		t.Fatalf("StatusName() = %q (outcomes %v)", c.StatusName(), rec.got())
	}
	if c.ResponseText() != "name=ajax&n=1" {
		t.Errorf("echoed body = %q", c.ResponseText())
	}
}

func TestHTTP_Timeout(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	c, rec := runRequest(t, cfg, func(c *Client) bool {
		return c.Get(ts.URL + "/delay/2000")
	})

	if c.Status() != status.Timeout {
		t.Errorf("status = %v, want Timeout (outcomes %v)", c.Status(), rec.got())
	}
	if rec.count(OutcomeTimeout) != 1 {
		t.Errorf("timeout fired %d times", rec.count(OutcomeTimeout))
	}
}

func TestHTTP_Abort(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	c, rec := runRequest(t, DefaultConfig(), func(c *Client) bool {
		if !c.Get(ts.URL + "/delay/2000") {
			return false
		}
		go func() {
			time.Sleep(20 * time.Millisecond)
			c.Abort()
		}()
		return true
	})

	if c.Status() != status.Aborted {
		t.Errorf("status = %v, want Aborted (outcomes %v)", c.Status(), rec.got())
	}
}
