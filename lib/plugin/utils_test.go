package plugin

import "testing"

func TestShortName(t *testing.T) {
	tests := []struct {
		filename string
		ext      string
		want     string
	}{
		{"libclock.so", ".so", "clock"},
		{"clock.so", ".so", "clock"},
		{"libclock.dylib", ".dylib", "clock"},
		{"clock.dll", ".dll", "clock"},
		{"libclock", ".so", "clock"},
		{"liblib.so", ".so", "lib"},
		{"libclock.so", "", "clock.so"},
	}

	for _, tt := range tests {
		if got := shortName(tt.filename, tt.ext); got != tt.want {
			t.Errorf("shortName(%q, %q): expected %q, got %q", tt.filename, tt.ext, tt.want, got)
		}
	}
}
