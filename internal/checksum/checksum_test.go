package checksum

import "testing"

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("quire"))
	if a != Sum([]byte("quire")) {
		t.Error("digest is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
}

func TestETagRoundTrip(t *testing.T) {
	sum := Sum([]byte("x"))
	if got := ParseETag(ETag(sum)); got != sum {
		t.Errorf("ParseETag(ETag) = %q", got)
	}
	if got := ParseETag(` W/"abc" `); got != "abc" {
		t.Errorf("weak etag = %q, want abc", got)
	}
}
