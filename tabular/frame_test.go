package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromRecordsInfersSchema(t *testing.T) {
	f := FromRecords([]map[string]interface{}{
		// float64 values are what JSON decoding hands us, so make
		// sure integral ones still come out as "integer"
		{"city": "Accra", "lat": 5.6, "founded": float64(1877), "capital": true},
		{"city": "Kumasi", "lat": 6.7, "founded": float64(1680), "capital": false},
	})

	want := Schema{Fields: []Field{
		{Name: "capital", Type: "boolean"},
		{Name: "city", Type: "string"},
		{Name: "founded", Type: "integer"},
		{Name: "lat", Type: "number"},
	}}

	require.Equal(t, want, f.Schema())
}

func TestFromRecordsAllNilColumn(t *testing.T) {
	f := FromRecords([]map[string]interface{}{
		{"a": nil},
		{"a": nil},
	})

	require.Equal(t, "string", f.Schema().Fields[0].Type)
}

func TestFromRecordsTypeFromFirstNonNil(t *testing.T) {
	f := FromRecords([]map[string]interface{}{
		{"a": nil},
		{"a": 3},
	})

	require.Equal(t, "integer", f.Schema().Fields[0].Type)
}

func TestHeadBounds(t *testing.T) {
	f := testFrame()

	require.Len(t, f.Head(2).Records(), 2)
	// Head beyond the row count is the whole frame
	require.Len(t, f.Head(50).Records(), 3)
}

func TestDataResourceIsNotTruncated(t *testing.T) {
	d := DataResource(testFrame())

	rows, ok := d["data"].([]map[string]interface{})
	if !ok {
		t.Fatal("expected the data entry to hold the row records")
	}
	require.Len(t, rows, 3)

	if _, ok := d["schema"].(Schema); !ok {
		t.Fatal("expected the schema entry to hold the frame schema")
	}
}
