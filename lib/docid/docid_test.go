package docid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdentifyDeterministic(t *testing.T) {
	date := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)

	a := Identify("https://sfbos.org/files/bag031825_agenda.pdf", "agenda", date)
	b := Identify("https://sfbos.org/files/bag031825_agenda.pdf", "agenda", date)
	require.Equal(t, a, b)
	require.Len(t, a, 16)
}

func TestIdentifyDistinguishesTuple(t *testing.T) {
	date := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)
	base := Identify("https://sfbos.org/files/bag031825.pdf", "agenda", date)

	cases := []struct {
		name string
		id   string
	}{
		{
			name: "different url",
			id:   Identify("https://sfbos.org/files/bag032525.pdf", "agenda", date),
		},
		{
			name: "different kind",
			id:   Identify("https://sfbos.org/files/bag031825.pdf", "minutes", date),
		},
		{
			name: "different date",
			id:   Identify("https://sfbos.org/files/bag031825.pdf", "agenda", date.AddDate(0, 0, 7)),
		},
	}
	for _, test := range cases {
		require.NotEqual(t, base, test.id, test.name)
	}
}

func TestIdentifyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 3, 18, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 18, 21, 0, 0, 0, time.UTC)

	require.Equal(
		t,
		Identify("https://sfbos.org/x.pdf", "minutes", morning),
		Identify("https://sfbos.org/x.pdf", "minutes", evening),
	)
}
