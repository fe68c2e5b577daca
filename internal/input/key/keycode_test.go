package key

import "testing"

func TestDecodeSpecials(t *testing.T) {
	tests := []struct {
		code Code
		want Key
	}{
		{36, KeyReturn},
		{49, KeySpace},
		{48, KeyTab},
		{53, KeyEscape},
		{51, KeyBackspace},
		{122, KeyF1},
		{55, KeyCmd},
	}

	for _, tt := range tests {
		k, r, ok := Decode(tt.code, false)
		if !ok || k != tt.want || r != 0 {
			t.Errorf("Decode(%d, false) = %v, %q, %v, want %v", tt.code, k, r, ok, tt.want)
		}
	}
}

func TestDecodeChars(t *testing.T) {
	tests := []struct {
		code  Code
		shift bool
		want  rune
	}{
		{0, false, 'a'},
		{0, true, 'A'},
		{1, false, 's'},
		{18, false, '1'},
		{18, true, '!'},
		{24, true, '+'},
		{47, true, '>'},
		{50, true, '~'},
		{39, false, '\''},
		{39, true, '"'},
	}

	for _, tt := range tests {
		k, r, ok := Decode(tt.code, tt.shift)
		if !ok || k != KeyRune || r != tt.want {
			t.Errorf("Decode(%d, %v) = %v, %q, %v, want KeyRune %q",
				tt.code, tt.shift, k, r, ok, tt.want)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	if _, _, ok := Decode(200, false); ok {
		t.Error("Decode(200) should fail")
	}
}

func TestCodeForName(t *testing.T) {
	tests := []struct {
		name string
		want Code
		ok   bool
	}{
		{"s", 1, true},
		{"S", 1, true},
		{"return", 36, true},
		{"enter", 36, true},
		{"v", 9, true},
		{"home", 115, true},
		{"f5", 96, true},
		{".", 47, true},
		{"nosuchkey", CodeNone, false},
	}

	for _, tt := range tests {
		got, ok := CodeForName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CodeForName(%q) = %d, %v, want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStrokeFor(t *testing.T) {
	tests := []struct {
		r     rune
		code  Code
		shift bool
		ok    bool
	}{
		{'a', 0, false, true},
		{'A', 0, true, true},
		{'!', 18, true, true},
		{'?', 44, true, true},
		{' ', 49, false, true},
		{'\n', 36, false, true},
		{'\t', 48, false, true},
		{'_', 27, true, true},
		{'é', 0, false, false},
	}

	for _, tt := range tests {
		s, ok := StrokeFor(tt.r)
		if ok != tt.ok {
			t.Errorf("StrokeFor(%q) ok = %v, want %v", tt.r, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if s.Code != tt.code || s.Shift != tt.shift {
			t.Errorf("StrokeFor(%q) = {%d %v}, want {%d %v}", tt.r, s.Code, s.Shift, tt.code, tt.shift)
		}
	}
}

func TestDecodeEncodeAgreement(t *testing.T) {
	// Every base character must decode back to itself through its stroke.
	for r := range charCodes {
		s, ok := StrokeFor(r)
		if !ok {
			t.Errorf("StrokeFor(%q) failed", r)
			continue
		}
		k, got, ok := Decode(s.Code, s.Shift)
		if !ok || k != KeyRune || got != r {
			t.Errorf("Decode(StrokeFor(%q)) = %q, want %q", r, got, r)
		}
	}
}

func TestRisky(t *testing.T) {
	for _, r := range "einu`EINU" {
		if !Risky(r) {
			t.Errorf("Risky(%q) = false, want true", r)
		}
	}
	for _, r := range "asdf123" {
		if Risky(r) {
			t.Errorf("Risky(%q) = true, want false", r)
		}
	}
}
