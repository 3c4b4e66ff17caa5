package s3

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	bencherrors "github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

// convertAWSError maps AWS SDK errors onto the package sentinels while
// keeping the original error in the chain.
func convertAWSError(err error) error {
	if err == nil {
		return nil
	}

	if sentinel := classify(err); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

func classify(err error) error {
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return bencherrors.ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return bencherrors.ErrBucketNotFound
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "Forbidden":
			return bencherrors.ErrAccessDenied
		case "SlowDown", "Throttling", "ThrottlingException", "TooManyRequests", "RequestLimitExceeded":
			return bencherrors.ErrTooManyRequests
		case "RequestTimeout":
			return bencherrors.ErrTimeout
		}
	}

	// HeadBucket carries no error body, only a status code
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return bencherrors.ErrBucketNotFound
		case http.StatusForbidden:
			return bencherrors.ErrAccessDenied
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return bencherrors.ErrTooManyRequests
		}
	}

	return nil
}
