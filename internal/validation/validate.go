package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

// maxKeyLength is the longest object key S3, MinIO, OCI and Azure all accept.
const maxKeyLength = 1024

// generatedKeyLength is an upper bound on what key generators insert between
// prefix and suffix (a UUID, or a run-level-index triple).
const generatedKeyLength = 64

// ValidateBucketName validates that a bucket name is DNS-compliant according to S3 rules.
// MinIO and OCI accept every name that passes.
func ValidateBucketName(bucket string) error {
	if err := validateNameBasics("bucket", bucket); err != nil {
		return err
	}

	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return bucketError(bucket, "bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}

	if bucket[0] == '-' || bucket[0] == '.' || bucket[len(bucket)-1] == '-' || bucket[len(bucket)-1] == '.' {
		return bucketError(bucket, "bucket name cannot start or end with a hyphen or dot")
	}

	if isIPAddress(bucket) {
		return bucketError(bucket, "bucket name cannot be formatted as an IP address")
	}

	if hasAdjacentSpecialChars(bucket) {
		return bucketError(bucket, "bucket name cannot contain two adjacent periods or hyphens")
	}

	if bucket == "localhost" {
		return bucketError(bucket, "bucket name cannot be a reserved word")
	}

	return nil
}

// ValidateContainerName validates an Azure Blob container name.
func ValidateContainerName(container string) error {
	if err := validateNameBasics("container", container); err != nil {
		return err
	}

	for _, char := range container {
		if (char < 'a' || char > 'z') && (char < '0' || char > '9') && char != '-' {
			return bucketError(container, "container name can only contain lowercase letters, numbers, and hyphens")
		}
	}

	if container[0] == '-' || container[len(container)-1] == '-' {
		return bucketError(container, "container name cannot start or end with a hyphen")
	}

	if strings.Contains(container, "--") {
		return bucketError(container, "container name cannot contain two adjacent hyphens")
	}

	return nil
}

// ValidateKeyAffix validates a key prefix or suffix. Generated keys must stay
// relative and printable whatever is inserted between the two.
func ValidateKeyAffix(affix string) error {
	if affix == "" {
		return nil
	}

	if hasPathTraversal(affix) {
		return keyError(affix, "key prefix and suffix cannot contain path traversal sequences")
	}

	if hasControlCharacters(affix) {
		return keyError(affix, "key prefix and suffix cannot contain control characters")
	}

	return nil
}

// ValidateRunConfig checks the bounds of a sweep configuration.
func ValidateRunConfig(cfg benchtypes.RunConfig) error {
	if cfg.ObjectCount < 1 {
		return configError("object count must be at least 1, got %d", cfg.ObjectCount)
	}

	if cfg.PayloadSize < 1 {
		return configError("payload size must be at least 1 byte, got %d", cfg.PayloadSize)
	}

	if len(cfg.Levels) == 0 {
		return configError("at least one concurrency level is required")
	}
	for i, level := range cfg.Levels {
		if level < 1 {
			return configError("concurrency level must be at least 1, got %d", level)
		}
		if level > benchtypes.MaxConcurrency {
			return configError("concurrency level cannot exceed %d, got %d", benchtypes.MaxConcurrency, level)
		}
		if i > 0 && level <= cfg.Levels[i-1] {
			return configError("concurrency levels must be strictly ascending")
		}
	}

	if cfg.UploadTimeout < 0 {
		return configError("upload timeout cannot be negative, got %s", cfg.UploadTimeout)
	}

	if cfg.RateLimit < 0 {
		return configError("rate limit cannot be negative, got %g", cfg.RateLimit)
	}

	if err := ValidateKeyAffix(cfg.KeyPrefix); err != nil {
		return err
	}
	if err := ValidateKeyAffix(cfg.KeySuffix); err != nil {
		return err
	}
	if len(cfg.KeyPrefix)+len(cfg.KeySuffix)+generatedKeyLength > maxKeyLength {
		return keyError(cfg.KeyPrefix+cfg.KeySuffix, "key prefix and suffix leave no room for the generated part")
	}

	return nil
}

// validateNameBasics validates basic name requirements
func validateNameBasics(kind, name string) error {
	if name == "" {
		return bucketError(name, fmt.Sprintf("%s name cannot be empty", kind))
	}

	// Names must be between 3 and 63 characters long
	if len(name) < 3 || len(name) > 63 {
		return bucketError(name, fmt.Sprintf("%s name must be between 3 and 63 characters long", kind))
	}

	return nil
}

func bucketError(name, message string) error {
	return errors.NewError("validate", errors.ErrInvalidBucketName).
		WithMessage(fmt.Sprintf("%q: %s", name, message))
}

func keyError(key, message string) error {
	return errors.NewError("validate", errors.ErrInvalidKey).
		WithKey(key).
		WithMessage(message)
}

func configError(format string, args ...any) error {
	return errors.NewError("validate", errors.ErrInvalidConfig).
		WithMessage(fmt.Sprintf(format, args...))
}

// isValidBucketChar checks if a character is valid in a bucket name
func isValidBucketChar(char rune) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'z') || char == '.' || char == '-'
}

// hasAdjacentSpecialChars checks for adjacent special characters
func hasAdjacentSpecialChars(bucket string) bool {
	for i := 0; i < len(bucket)-1; i++ {
		if (bucket[i] == '.' && bucket[i+1] == '.') || (bucket[i] == '-' && bucket[i+1] == '-') {
			return true
		}
	}
	return false
}

// isIPAddress checks if a string is formatted as an IP address
func isIPAddress(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		if len(part) == 0 {
			return true
		}
		num := 0
		for _, char := range part {
			if char < '0' || char > '9' {
				return false
			}
			num = num*10 + int(char-'0')
		}
		if num > 255 {
			return false
		}
	}

	return true
}

// hasPathTraversal checks for path traversal attempts in key affixes
func hasPathTraversal(key string) bool {
	if strings.Contains(key, "..") {
		return true
	}

	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "/") {
		return true
	}

	// Windows-style absolute paths
	if len(cleaned) >= 3 && cleaned[1] == ':' && (cleaned[2] == '\\' || cleaned[2] == '/') {
		return true
	}

	return false
}

// hasControlCharacters checks for control characters in the key
func hasControlCharacters(key string) bool {
	for _, char := range key {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
