package descerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	t.Parallel()

	var (
		errBase = errors.New("channel not found")
		err     = HTTPStatusCodeError(errBase, http.StatusNotFound)
	)

	require.ErrorIs(t, err, errBase)
	require.Equal(t, http.StatusNotFound, HTTPStatusCode(err))
	require.Equal(t, http.StatusNotFound, HTTPStatusCode(fmt.Errorf("wrapped: %w", err)))
	require.Equal(t, http.StatusInternalServerError, HTTPStatusCode(errBase))
	require.Equal(t, http.StatusInternalServerError, HTTPStatusCode(HTTPStatusCodeError(errBase, 42)))
	require.NoError(t, HTTPStatusCodeError(nil, http.StatusBadRequest))
}
