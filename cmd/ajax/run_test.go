package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bft-labs/ajaxclient/internal/cliconfig"
	"github.com/bft-labs/ajaxclient/internal/echo"
	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/status"
)

func testConfig(t *testing.T, url string, mod func(c *cliconfig.Config)) cliconfig.Config {
	t.Helper()
	cfg := cliconfig.DefaultConfig()
	cfg.URL = url
	if mod != nil {
		mod(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func TestSend(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	tests := []struct {
		name     string
		cfg      cliconfig.Config
		want     status.Status
		wantBody string
	}{
		{
			name:     "get success",
			cfg:      testConfig(t, ts.URL+"/status/200", nil),
			want:     status.Success,
			wantBody: "200 OK\n",
		},
		{
			name: "get failure",
			cfg:  testConfig(t, ts.URL+"/status/503", nil),
			want: status.Failure,
		},
		{
			name: "post body",
			cfg: testConfig(t, ts.URL+"/echo", func(c *cliconfig.Config) {
				c.Method = "POST"
				c.Body = "a=1&b=2"
			}),
			want:     status.Success,
			wantBody: "a=1&b=2",
		},
		{
			name: "post query as body",
			cfg: testConfig(t, ts.URL+"/echo?x=9", func(c *cliconfig.Config) {
				c.Method = "POST"
			}),
			want:     status.Success,
			wantBody: "x=9",
		},
		{
			name: "timeout",
			cfg: testConfig(t, ts.URL+"/delay/2000", func(c *cliconfig.Config) {
				c.Timeout = 50 * time.Millisecond
			}),
			want: status.Timeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := send(context.Background(), log.NewNoopLogger(), tt.cfg, &out)
			if err != nil {
				t.Fatalf("send() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("status = %v, want %v", got, tt.want)
			}
			if tt.wantBody != "" && out.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", out.String(), tt.wantBody)
			}
		})
	}
}

func TestSend_CancelAborts(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	got, err := send(ctx, log.NewNoopLogger(), testConfig(t, ts.URL+"/delay/2000", nil), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("send() error = %v", err)
	}
	if got != status.Aborted {
		t.Errorf("status = %v, want Aborted", got)
	}
}

func TestSend_Events(t *testing.T) {
	ts := httptest.NewServer(echo.NewRouter())
	defer ts.Close()

	cfg := testConfig(t, ts.URL+"/status/200", func(c *cliconfig.Config) { c.Events = true })
	var out bytes.Buffer
	if _, err := send(context.Background(), log.NewNoopLogger(), cfg, &out); err != nil {
		t.Fatal(err)
	}

	var types []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var ev struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		types = append(types, ev.Type)
	}
	if len(types) == 0 {
		t.Fatal("no events written")
	}
	if last := types[len(types)-1]; last != "com.bftlabs.ajax.complete" {
		t.Errorf("last event = %q, want complete", last)
	}
}

func TestSend_NotDispatched(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.URL = "http://"
	if _, err := send(context.Background(), log.NewNoopLogger(), cfg, &bytes.Buffer{}); err == nil {
		t.Error("send() with an unusable url succeeded")
	}
}
