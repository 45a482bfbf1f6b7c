package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillStatus_JSON(t *testing.T) {
	data, err := json.Marshal(BillStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, `"completed"`, string(data))

	var s BillStatus
	require.NoError(t, json.Unmarshal([]byte(`"pending"`), &s))
	assert.Equal(t, BillStatusPending, s)

	require.NoError(t, json.Unmarshal([]byte(`""`), &s))
	assert.Equal(t, BillStatusCompleted, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, BillStatusPending, s)

	assert.Error(t, json.Unmarshal([]byte(`"refunded"`), &s))
}

func TestBillStatus_Scan(t *testing.T) {
	var s BillStatus
	require.NoError(t, s.Scan(int64(1)))
	assert.Equal(t, BillStatusPending, s)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, BillStatusCompleted, s)

	v, err := BillStatusPending.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestStockLevel_JSON(t *testing.T) {
	for _, l := range []StockLevel{StockLevelNormal, StockLevelLow, StockLevelCritical} {
		data, err := json.Marshal(l)
		require.NoError(t, err)

		var back StockLevel
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, l, back)
	}
	assert.Equal(t, "critical", StockLevelCritical.String())

	var l StockLevel
	assert.Error(t, json.Unmarshal([]byte(`"urgent"`), &l))
}
