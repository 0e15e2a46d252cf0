package dbtypes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayValueQuotesItems(t *testing.T) {
	v, err := StringArray{"Guitar", `Bass "5 string"`}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"Guitar","Bass \"5 string\""}`, v)

	empty, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestStringArrayScanParsesPostgresLiterals(t *testing.T) {
	var arr StringArray
	require.NoError(t, arr.Scan(`{Guitar,"Lead Vocals","with, comma"}`))
	assert.Equal(t, StringArray{"Guitar", "Lead Vocals", "with, comma"}, arr)

	require.NoError(t, arr.Scan([]byte("{}")))
	assert.Empty(t, arr)

	require.NoError(t, arr.Scan(nil))
	assert.Empty(t, arr)

	assert.Error(t, arr.Scan(42))
	assert.Error(t, arr.Scan(`{"open`))
}

func TestStringArrayRoundTripThroughValue(t *testing.T) {
	in := StringArray{"worship", `a\b`, "x,y"}
	v, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringArrayMarshalsNilAsEmpty(t *testing.T) {
	raw, err := json.Marshal(struct {
		Tags StringArray `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(raw))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 10, 15, 4, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-10", d.String())

	require.NoError(t, d.Scan("2024-04-01"))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", v)

	require.NoError(t, d.Scan([]byte("2024-05-02T00:00:00Z")))
	assert.Equal(t, "2024-05-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		When *Date `json:"when"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"when":"2024-12-24"}`), &payload))
	require.NotNil(t, payload.When)
	assert.Equal(t, "2024-12-24", payload.When.String())

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2024-12-24"}`, string(raw))

	var bad Date
	assert.Error(t, json.Unmarshal([]byte(`"24/12/2024"`), &bad))
}
