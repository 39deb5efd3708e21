package synthesis

import "testing"

func TestRateArgument(t *testing.T) {
	cases := map[float64]string{
		1.0:  "+0%",
		1.25: "+25%",
		1.1:  "+10%",
		0.9:  "-10%",
		0.5:  "-50%",
		2.0:  "+100%",
	}
	for speed, want := range cases {
		if got := RateArgument(speed); got != want {
			t.Fatalf("RateArgument(%v) got %q, want %q", speed, got, want)
		}
	}
}
