package ai

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/ecosort/ecosort-backend/pkg/errors"
)

var statusCodePattern = regexp.MustCompile(`"code"\s*:\s*(\d{3})|\bError (\d{3})\b|\b(\d{3})\b`)

// classifyUpstreamError maps a raw Gemini SDK error onto the upstream error
// taxonomy: 429 quota, 503 overload, deadline timeout, everything else a
// generic retryable failure. The SDK surfaces HTTP status through the error
// string, so extraction is text-based.
func classifyUpstreamError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout") {
		return apperrors.NewTimeoutError(err)
	}

	switch extractStatusCode(msg) {
	case 429:
		return apperrors.NewQuotaExceededError(err)
	case 503:
		return apperrors.NewOverloadedError(err)
	}

	if strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "quota") {
		return apperrors.NewQuotaExceededError(err)
	}
	if strings.Contains(lower, "unavailable") || strings.Contains(lower, "overloaded") {
		return apperrors.NewOverloadedError(err)
	}

	return apperrors.NewUpstreamError("upstream model call failed", 502, err)
}

func extractStatusCode(msg string) int {
	matches := statusCodePattern.FindStringSubmatch(msg)
	if matches == nil {
		return 0
	}
	for _, group := range matches[1:] {
		if group == "" {
			continue
		}
		if code, err := strconv.Atoi(group); err == nil && code >= 400 && code < 600 {
			return code
		}
	}
	return 0
}
