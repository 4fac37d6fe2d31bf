package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLondonPostcodeResolver(t *testing.T) {
	r := LondonPostcodeResolver{}

	cases := []struct {
		a, b string
		want float64
	}{
		{"SW1A 1AA", "SW1A 2AA", 1},  // same district
		{"SW1A 1AA", "SW9 1AA", 3},   // same area
		{"SW1A 1AA", "SE1 1AA", 6},   // known cross-town pair
		{"SE1 1AA", "SW1A 1AA", 6},   // pair lookup is symmetric
		{"SW1A 1AA", "CR0 1AA", 12},  // unknown pairing
	}
	for _, tc := range cases {
		got, err := r.Distance(tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.a, tc.b)
	}
}

func TestLondonPostcodeResolverRejectsGarbage(t *testing.T) {
	r := LondonPostcodeResolver{}
	_, err := r.Distance("not-a-postcode", "SW1A 1AA")
	assert.Error(t, err)
}
