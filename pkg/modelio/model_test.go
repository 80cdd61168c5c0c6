package modelio

import "testing"

func sampleModel() *Model {
	return &Model{
		LayerSize: 3,
		Words:     []string{"</s>", "a", "b"},
		Vectors:   []float32{0, 0, 0, 1, 2, 3, 4, 5, 6},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sampleModel()
	raw, err := EncodeModel(m)
	if err != nil {
		t.Fatalf("EncodeModel: %v", err)
	}
	got, err := DecodeModel(raw)
	if err != nil {
		t.Fatalf("DecodeModel: %v", err)
	}
	if !m.Equal(got) {
		t.Fatalf("round-tripped model does not equal original:\nwant %+v\ngot  %+v", m, got)
	}
}

func TestEqualDetectsDifference(t *testing.T) {
	a := sampleModel()
	b := sampleModel()
	b.Vectors[0] = 99
	if a.Equal(b) {
		t.Fatalf("models differing in Vectors should not be equal")
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := DecodeModel([]byte("not a real model stream"))
	if err == nil {
		t.Fatalf("expected error decoding garbage input")
	}
}

func TestVectorSlicesCorrectRow(t *testing.T) {
	m := sampleModel()
	got := m.Vector(1)
	want := []float32{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Vector(1) = %v, want %v", got, want)
		}
	}
}
