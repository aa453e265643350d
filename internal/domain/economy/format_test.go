package economy

import "testing"

func TestFormatBuffer(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0 MB"},
		{128, "128.0 MB"},
		{1023, "1023.0 MB"},
		{1024, "1.0 GB"},
		{10240, "10.0 GB"},
		{10112, "9.88 GB"},
		{1024*1024 - 1, "1024.0 GB"},
		{1024 * 1024, "1.0 TB"},
		{1024 * 1024 * 2.5, "2.5 TB"},
		{2048.337, "2.0 GB"},
	}
	for _, tc := range cases {
		if got := FormatBuffer(tc.in); got != tc.want {
			t.Errorf("FormatBuffer(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
