package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestRowsAffected(t *testing.T) {
	n, err := RowsAffected(stubResult{rows: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = RowsAffected(stubResult{})
	require.NoError(t, err)
	require.Zero(t, n)

	driverErr := errors.New("driver: bad connection")
	_, err = RowsAffected(stubResult{rows: 0, err: driverErr})
	require.ErrorIs(t, err, driverErr)
}
