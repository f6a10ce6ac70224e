package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewConflict("taken", map[string]any{"unique_id": "u-1"})
	wrapped := fmt.Errorf("commit: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeConflict, de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "u-1", de.Details["unique_id"])
}

func TestToDomainError_NoRowsIsNotFound(t *testing.T) {
	de := ToDomainError(sql.ErrNoRows)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	boom := errors.New("boom")
	de := ToDomainError(boom)
	assert.Equal(t, CodeInternalError, de.Code)
	assert.ErrorIs(t, de, boom)
	assert.Contains(t, de.Error(), "boom")
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.Nil(t, ToDomainError(nil))
}

func TestNewUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	de := ToDomainError(NewUnavailable(cause))
	assert.Equal(t, CodeStoreUnavailable, de.Code)
	assert.Equal(t, http.StatusServiceUnavailable, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)
}
