package state

import "testing"

func TestFormatInUse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mask uint16
		want string
	}{
		{name: "empty", mask: 0, want: " none"},
		{name: "single", mask: 1 << 1, want: " tty1"},
		{name: "several", mask: 1<<1 | 1<<2 | 1<<7, want: " tty1 tty2 tty7"},
		{name: "includes vt0", mask: 1 << 0, want: " tty0"},
		{name: "highest", mask: 1 << 15, want: " tty15"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatInUse(tt.mask); got != tt.want {
				t.Errorf("formatInUse(%#x) = %q, want %q", tt.mask, got, tt.want)
			}
		})
	}
}
