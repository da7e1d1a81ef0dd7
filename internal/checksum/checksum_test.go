package checksum

import "testing"

func TestSum_Known(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %s, want %s", got, want)
	}
	if got := Short([]byte("abc")); got != want[:12] {
		t.Errorf("Short = %s", got)
	}
}
