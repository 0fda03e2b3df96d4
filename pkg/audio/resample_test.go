package audio

import (
	"math"
	"testing"
)

func TestResampleSameRate(t *testing.T) {
	in := []int16{1, 2, 3, 4}
	out := Resample(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestResampleRatio(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		inLen    int
		wantLen  int
	}{
		{"downsample 48k to 16k", 48000, 16000, 480, 160},
		{"upsample 16k to 48k", 16000, 48000, 160, 480},
		{"downsample 44.1k to 16k", 44100, 16000, 441, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]int16, tt.inLen)
			for i := range in {
				in[i] = int16(i)
			}
			out := Resample(in, tt.from, tt.to)
			// Length may be off by one from float truncation.
			if len(out) < tt.wantLen-1 || len(out) > tt.wantLen+1 {
				t.Errorf("len = %d, want %d", len(out), tt.wantLen)
			}
		})
	}
}

func TestResamplePreservesSine(t *testing.T) {
	// A 440Hz tone resampled 48k -> 16k should keep roughly the same RMS.
	const n = 4800
	in := make([]int16, n)
	for i := range in {
		in[i] = int16(8000 * math.Sin(2*math.Pi*440*float64(i)/48000))
	}
	out := Resample(in, 48000, 16000)

	inRMS := CalculateRMS(in)
	outRMS := CalculateRMS(out)
	if math.Abs(inRMS-outRMS)/inRMS > 0.1 {
		t.Errorf("RMS drifted: in %.1f out %.1f", inRMS, outRMS)
	}
}

func TestSamplesBytesRoundTrip(t *testing.T) {
	in := []int16{0, 1, -1, 32767, -32768, 1234}
	out := BytesToSamples(SamplesToBytes(in))
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestLinear16Codec(t *testing.T) {
	c := Linear16{}

	t.Run("identity", func(t *testing.T) {
		in := []byte{1, 2, 3, 4}
		enc, err := c.Encode(in)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		dec, err := c.Decode(enc)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if string(dec) != string(in) {
			t.Errorf("round trip = %v, want %v", dec, in)
		}
	})

	t.Run("odd length rejected", func(t *testing.T) {
		if _, err := c.Decode([]byte{1, 2, 3}); err == nil {
			t.Error("odd-length buffer decoded without error")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := cfg
	bad.SampleRate = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero sample rate accepted")
	}

	bad = cfg
	bad.Codec = "mp3"
	if err := bad.Validate(); err == nil {
		t.Error("unknown codec accepted")
	}
}
