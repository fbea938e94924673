package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	httpAdapter "github.com/bft-labs/ajaxclient/internal/adapters/http"
	"github.com/bft-labs/ajaxclient/internal/cliconfig"
	"github.com/bft-labs/ajaxclient/internal/watch"
	"github.com/bft-labs/ajaxclient/pkg/ajax"
	"github.com/bft-labs/ajaxclient/pkg/events"
	"github.com/bft-labs/ajaxclient/pkg/log"
	"github.com/bft-labs/ajaxclient/pkg/socket"
	"github.com/bft-labs/ajaxclient/pkg/status"
)

// abortGrace bounds the wait for loadend after an abort on shutdown.
const abortGrace = 5 * time.Second

func requestOnce(ctx context.Context, zl zerolog.Logger, cfg cliconfig.Config) error {
	st, err := send(ctx, log.NewZerologAdapterWithLogger(zl), cfg, os.Stdout)
	if err != nil {
		return err
	}
	if st != status.Success {
		return &outcomeError{status: st}
	}
	return nil
}

// send runs one request to completion and returns its final status. The
// response body goes to out unless events are enabled, in which case the
// lifecycle events do.
func send(ctx context.Context, logger log.Logger, cfg cliconfig.Config, out io.Writer) (status.Status, error) {
	sock := httpAdapter.NewSocket(
		httpAdapter.WithLogger(logger),
		httpAdapter.WithProgressInterval(cfg.ProgressInterval),
	)

	done := make(chan struct{})
	client := ajax.New(ajax.Config{
		Name:            cfg.Name,
		Debug:           cfg.Level,
		Timeout:         cfg.Timeout,
		RequestIDHeader: cfg.RequestIDHeader,
	},
		ajax.WithSocket(sock),
		ajax.WithLogger(logger),
		ajax.WithHandlers(ajax.Handlers{
			Complete: func(socket.Event) { close(done) },
		}),
	)
	if cfg.Events {
		events.NewRecorder(events.NewWriter(out),
			events.WithSource("ajax/"+cfg.Name),
			events.WithLogger(logger),
		).Attach(client)
	}

	var ok bool
	if cfg.Method == "POST" {
		ok = client.Post(cfg.Target())
	} else {
		ok = client.Get(cfg.URL)
	}
	if !ok {
		return client.Status(), fmt.Errorf("%s %s was not dispatched", cfg.Method, cfg.URL)
	}

	select {
	case <-done:
	case <-ctx.Done():
		client.Abort()
		select {
		case <-done:
		case <-time.After(abortGrace):
			return client.Status(), fmt.Errorf("request did not stop after abort")
		}
	}

	if !cfg.Events {
		if _, err := io.WriteString(out, client.ResponseText()); err != nil {
			return client.Status(), fmt.Errorf("write response: %w", err)
		}
	}
	return client.Status(), nil
}

// watchConfig sends the configured request, then again after every change
// of the config file, until ctx is done.
func watchConfig(ctx context.Context, zl zerolog.Logger, path string, load func() (cliconfig.Config, error)) error {
	logger := log.NewZerologAdapterWithLogger(zl)

	cfg, err := load()
	if err != nil {
		return err
	}

	reload := make(chan struct{}, 1)
	w := watch.New(path, func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	}, watch.WithDebounce(cfg.Debounce), watch.WithLogger(logger))
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	for {
		st, err := send(ctx, logger, cfg, os.Stdout)
		if err != nil {
			logger.Error("request failed", log.Err(err))
		} else {
			logger.Info("request finished", log.Stringer("status", st))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-reload:
		}

		next, err := load()
		if err != nil {
			logger.Error("config reload failed, keeping previous", log.Err(err))
			continue
		}
		cfg = next
		logger.Info("config reloaded", log.String("url", cfg.URL), log.String("method", cfg.Method))
	}
}
