package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaxonomy(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("connection refused")

	chainErr := fmt.Errorf("fetching events: %w", NewChainQueryError("filter logs", cause))
	require.True(t, IsChainQuery(chainErr))
	require.False(t, IsUpstreamAPI(chainErr))
	require.ErrorIs(t, chainErr, cause)
	require.Contains(t, chainErr.Error(), "filter logs: connection refused")

	upstreamErr := NewUpstreamAPIError(502, cause)
	require.True(t, IsUpstreamAPI(upstreamErr))
	require.False(t, IsValidation(upstreamErr))

	validationErr := NewValidationError("address", "required")
	require.True(t, IsValidation(validationErr))
	require.Equal(t, "address required", validationErr.Error())
}
