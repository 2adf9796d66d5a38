package entity

import (
	"testing"

	"github.com/alecthomas/assert"
)

func strPtr(s string) *string { return &s }

func TestFlightFieldsCoverEveryInputColumn(t *testing.T) {
	assert.Equal(t, 11, len(FlightFields))

	seen := map[string]bool{}
	var in FlightInput
	for _, f := range FlightFields {
		assert.False(t, seen[f.Column], "duplicate column %s", f.Column)
		seen[f.Column] = true
		in.Set(f.Column, strPtr("v-"+f.Column))
	}
	for _, f := range FlightFields {
		v := in.Value(f.Column)
		assert.NotNil(t, v, f.Column)
		assert.Equal(t, "v-"+f.Column, *v)
	}
}

func TestSetNilStoresNull(t *testing.T) {
	in := FlightInput{Route: strPtr("R1"), ExitPoint: strPtr("X")}

	in.Set(ColumnRoute, nil)
	assert.Nil(t, in.Route)

	in.Set(ColumnExitPoint, nil)
	assert.Nil(t, in.ExitPoint)
}

func TestNormalizeExitPoint(t *testing.T) {
	in := FlightInput{ExitPoint: strPtr("nan")}
	in.NormalizeExitPoint()
	assert.Nil(t, in.ExitPoint)

	in.ExitPoint = strPtr("NaN")
	in.NormalizeExitPoint()
	assert.Equal(t, "NaN", *in.ExitPoint)

	in.ExitPoint = strPtr("")
	in.NormalizeExitPoint()
	assert.Equal(t, "", *in.ExitPoint)

	// only the exit point carries the sentinel
	in = FlightInput{Route: strPtr("nan")}
	in.NormalizeExitPoint()
	assert.Equal(t, "nan", *in.Route)
}

func TestArgsOrder(t *testing.T) {
	in := FlightInput{
		EntryPoint: strPtr("A"),
		Flight:     strPtr("F1"),
		Route:      strPtr("R1"),
	}
	args := in.Args()
	assert.Equal(t, len(FlightFields), len(args))
	assert.Equal(t, "A", args[0])
	assert.Nil(t, args[1])
	assert.Equal(t, "F1", args[2])
	assert.Nil(t, args[3])
	assert.Equal(t, "R1", args[len(args)-1])
}
