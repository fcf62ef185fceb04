package encoding

import (
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain", []byte("id: grass"), "id: grass"},
		{"utf-8 bom", []byte("\xef\xbb\xbfid: grass"), "id: grass"},
		{"utf-16le bom", []byte{0xff, 0xfe, 'i', 0, 'd', 0, ':', 0, ' ', 0, 'x', 0}, "id: x"},
		{"utf-16be bom", []byte{0xfe, 0xff, 0, 'i', 0, 'd', 0, ':', 0, ' ', 0, 'x'}, "id: x"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.data)
			if err != nil {
				t.Fatalf("DecodeText failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeID(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"

	if NormalizeID(decomposed) != composed {
		t.Errorf("expected %q, got %q", composed, NormalizeID(decomposed))
	}
	if NormalizeID("ground_grass") != "ground_grass" {
		t.Error("ASCII ids must be unchanged")
	}
}
