package calc

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"
)

func TestBinexp(t *testing.T) {
	cases := []struct {
		x    string
		want int
	}{
		{"1", 1},
		{"-1", 1},
		{"0.5", 0},
		{"0.75", 0},
		{"0.1", -3},
		{"3", 2},
		{"4", 3},
		{"9223372036854775807", 63},
		{"9223372036854775808", 64},
		{"-9223372036854775808", 64},
		{"18446744073709551616", 65},
		{"1e100", 333},
	}
	for _, c := range cases {
		x, _, err := apd.NewFromString(c.x)
		require.NoError(t, err)
		require.Equal(t, c.want, binexp(x), c.x)
	}
}

func TestRatof(t *testing.T) {
	cases := map[string]string{
		"0.1":    "1/10",
		"-2.50":  "-5/2",
		"1.2E+3": "1200",
		"0":      "0",
		"7":      "7",
	}
	for s, want := range cases {
		x, _, err := apd.NewFromString(s)
		require.NoError(t, err)
		require.Equal(t, want, ratof(x).RatString(), s)
	}
}

func TestDecimalExact(t *testing.T) {
	ctx := NewContext()
	d := decimal{ctx}
	x, err := d.num("0.1")
	require.NoError(t, err)
	three, err := d.num("3")
	require.NoError(t, err)
	y, err := d.mul(x, three)
	require.NoError(t, err)
	z, err := d.num("0.3")
	require.NoError(t, err)
	w, err := d.sub(y, z)
	require.NoError(t, err)
	require.True(t, w.IsZero())
	_, err = d.quo(three, w)
	require.ErrorIs(t, err, ErrDivisionByZero)

	// Operands are never modified.
	require.Equal(t, "0.1", x.String())
}

func TestDecimalPowInt(t *testing.T) {
	d := decimal{NewContext()}
	cases := []struct {
		x, n string
		want string
	}{
		{"2", "10", "1024"},
		{"-2", "3", "-8"},
		{"-1", "-7", "-1"},
		{"0.5", "-2", "4"},
		{"10", "-3", "0.001"},
	}
	for _, c := range cases {
		x, err := d.num(c.x)
		require.NoError(t, err)
		n, err := d.num(c.n)
		require.NoError(t, err)
		z, err := d.pow(x, n)
		require.NoError(t, err, "%s**%s", c.x, c.n)
		require.Equal(t, c.want, FormatDecimal(z, 50), "%s**%s", c.x, c.n)
	}
}
