package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	out, err := CSV(Table{
		Headers: []string{"date", "seat"},
		Rows:    [][]string{{"2024-06-10", "A-1"}, {"2024-06-11", "desk, window"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "date,seat\n2024-06-10,A-1\n2024-06-11,\"desk, window\"\n", string(out))
}

func TestCSVRejectsBadShapes(t *testing.T) {
	_, err := CSV(Table{})
	assert.Error(t, err)

	_, err = CSV(Table{Headers: []string{"a", "b"}, Rows: [][]string{{"only"}}})
	assert.Error(t, err)
}
