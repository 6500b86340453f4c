package main

import (
	"context"
	"encoding/json"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valoruf/valoruf/internal/render"
	"github.com/valoruf/valoruf/internal/series"
	"github.com/valoruf/valoruf/pkg/ufapi"
)

var (
	queryWatch time.Duration
	queryJSON  bool
)

// errQueryFailed drives the exit status after the failure view has already
// been rendered.
var errQueryFailed = eris.New("query failed")

// addQueryFlags registers the flags shared by every query command.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&queryWatch, "watch", 0, "re-run the query on this interval until interrupted")
	cmd.Flags().BoolVar(&queryJSON, "json", false, "emit normalized records as JSON instead of the table")
}

// runQuery executes one query command against the series API.
func runQuery(cmd *cobra.Command, q ufapi.Query) error {
	if err := cfg.Validate("query"); err != nil {
		return err
	}

	client := ufapi.NewClient(cfg.API.Origin)
	out := cmd.OutOrStdout()

	if queryWatch > 0 {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if queryJSON {
			return watchJSON(ctx, out, client, q)
		}
		watchView(ctx, out, client, q)
		return nil
	}

	ctx := cmd.Context()
	if queryJSON {
		records, err := fetchRecords(ctx, client, q)
		if err != nil {
			return err
		}
		return writeRecordsJSON(out, records)
	}

	vm := render.NewViewModel(render.NewPresenter())
	runOnce(ctx, out, client, vm, q)
	if vm.State() == render.StateError {
		// The failure is already on screen; the error only sets the exit code.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errQueryFailed
	}
	return nil
}

// fetchRecords runs the client pipeline for one invocation: resolve the
// query to its target, fetch the payload, flatten it to records.
func fetchRecords(ctx context.Context, client ufapi.Client, q ufapi.Query) ([]series.Record, error) {
	target, err := q.Build(nil)
	if err != nil {
		return nil, err
	}
	payload, err := client.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return series.Normalize(payload), nil
}

// runOnce executes a single invocation synchronously: loading view, fetch,
// final view.
func runOnce(ctx context.Context, out io.Writer, client ufapi.Client, vm *render.ViewModel, q ufapi.Query) {
	token := vm.Begin()
	_ = vm.Render(out)

	records, err := fetchRecords(ctx, client, q)
	if err != nil {
		vm.Fail(token, err)
	} else {
		vm.Complete(token, records)
	}
	_ = vm.Render(out)
}

// watchView re-dispatches the query on the interval until the context ends.
// In-flight invocations are never cancelled by later ones; the view token
// keeps only the freshest invocation visible, however completions are
// ordered.
func watchView(ctx context.Context, out io.Writer, client ufapi.Client, q ufapi.Query) {
	vm := render.NewViewModel(render.NewPresenter())

	var (
		mu sync.Mutex // serializes writes to out
		wg sync.WaitGroup
	)

	dispatch := func() {
		token := vm.Begin()
		mu.Lock()
		_ = vm.Render(out)
		mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := fetchRecords(ctx, client, q)

			var applied bool
			if err != nil {
				applied = vm.Fail(token, err)
			} else {
				applied = vm.Complete(token, records)
			}
			if !applied {
				// A newer invocation owns the view.
				return
			}

			mu.Lock()
			_ = vm.Render(out)
			mu.Unlock()
		}()
	}

	dispatch()
	ticker := time.NewTicker(queryWatch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			dispatch()
		}
	}
}

// watchJSON re-fetches on the interval and emits one JSON array per run.
func watchJSON(ctx context.Context, out io.Writer, client ufapi.Client, q ufapi.Query) error {
	emit := func() {
		records, err := fetchRecords(ctx, client, q)
		if err != nil {
			zap.L().Warn("query: fetch failed", zap.Error(err))
			return
		}
		_ = writeRecordsJSON(out, records)
	}

	emit()
	ticker := time.NewTicker(queryWatch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			emit()
		}
	}
}

// writeRecordsJSON emits records as an indented JSON array, [] when empty.
func writeRecordsJSON(out io.Writer, records []series.Record) error {
	if records == nil {
		records = []series.Record{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
