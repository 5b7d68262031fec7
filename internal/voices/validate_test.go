package voices

import "testing"

func TestValidateReference(t *testing.T) {
	if err := ValidateReference(testWAV(t, 24000, 1, 3)); err != nil {
		t.Fatalf("valid clip rejected: %v", err)
	}
}

func TestValidateReferenceRejects(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("not a wav file at all")},
		{"stereo", testWAV(t, 24000, 2, 3)},
		{"rate too low", testWAV(t, 4000, 1, 3)},
		{"too short", testWAV(t, 24000, 1, 0.4)},
		{"too long", testWAV(t, 8000, 1, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateReference(tc.data)
			if err == nil {
				t.Fatalf("expected rejection")
			}
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
