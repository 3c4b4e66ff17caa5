// Package blobbench measures client-observed upload latency against a blob
// store while sweeping client-side concurrency.
//
// For every concurrency level L the runner uploads the same payload to N
// fresh object keys using exactly L workers. The first upload of each worker
// pays for connection setup and is reported separately from the remaining
// steady-state uploads. Levels run strictly one after another, in ascending
// order, and each finished level is handed to a Reporter straight away.
//
// Example:
//
//	store, err := s3store.New(ctx, "bench-bucket", s3store.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//	runner, err := blobbench.New(store,
//	    blobbench.WithObjectCount(1000),
//	    blobbench.WithConcurrencyRange(1, 12),
//	    blobbench.WithReporter(report.NewText(os.Stdout)),
//	)
//	if err != nil {
//	    return err
//	}
//	return runner.Run(ctx)
package blobbench
