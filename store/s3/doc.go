// Package s3 implements the benchmark store on Amazon S3 and S3-compatible
// services reachable through the AWS SDK.
//
// Every upload is a single PutObject call. SDK retries are disabled so that
// each measured latency is exactly one request, and a throttled or failed
// request surfaces as a failed upload instead of a slow one.
//
// Example:
//
//	store, err := s3.New(ctx, "bench-bucket",
//	    s3.WithRegion("us-west-2"),
//	)
//	if err != nil {
//	    return err
//	}
//	err = store.Put(ctx, "quickstart-1.txt", payload)
package s3
