package define

import "testing"

func TestKeyboardStatusEqual(t *testing.T) {
	base := KeyboardStatus{Layer: 0x1, DefaultLayer: 0xFFFF, LEDs: 0x2, Suspended: false}

	if !base.Equal(base) {
		t.Fatal("status must equal itself")
	}

	tests := []struct {
		name  string
		other KeyboardStatus
	}{
		{"layer", KeyboardStatus{Layer: 0x3, DefaultLayer: 0xFFFF, LEDs: 0x2}},
		{"default layer", KeyboardStatus{Layer: 0x1, DefaultLayer: 0xFFFE, LEDs: 0x2}},
		{"leds", KeyboardStatus{Layer: 0x1, DefaultLayer: 0xFFFF, LEDs: 0x0}},
		{"suspended", KeyboardStatus{Layer: 0x1, DefaultLayer: 0xFFFF, LEDs: 0x2, Suspended: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if base.Equal(tt.other) || tt.other.Equal(base) {
				t.Errorf("statuses differing in %s compared equal", tt.name)
			}
		})
	}
}

func TestUnknownStatusDiffersFromZero(t *testing.T) {
	if UnknownStatus.Equal(KeyboardStatus{}) {
		t.Fatal("sentinel must differ from the zero status")
	}
	if UnknownStatus.Suspended {
		t.Fatal("sentinel must not be suspended")
	}
}

func TestSideFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Side
	}{
		{"left", SIDE_LEFT},
		{" Right ", SIDE_RIGHT},
		{"r", SIDE_RIGHT},
		{"middle", SIDE_UNKNOWN},
		{"", SIDE_UNKNOWN},
	}
	for _, tt := range tests {
		if got := SideFromString(tt.in); got != tt.want {
			t.Errorf("SideFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if SIDE_LEFT.Key() != "left" || SIDE_RIGHT.Key() != "right" {
		t.Error("Key() must round-trip through SideFromString")
	}
}
