package format

import "testing"

func TestBlockHeaderRoundTrip(t *testing.T) {
	mem := make([]byte, 64)
	p := uint64(16)

	SetBlockSize(mem, p, 40)
	SetPrevField(mem, p, 24|FreeBit)

	if got := BlockSize(mem, p); got != 40 {
		t.Fatalf("BlockSize = %d, want 40", got)
	}
	if got := PrevSize(mem, p); got != 24 {
		t.Fatalf("PrevSize = %d, want 24", got)
	}
	if !PrevFree(mem, p) {
		t.Fatal("PrevFree = false, want true")
	}

	SetPrevField(mem, p, 24)
	if PrevFree(mem, p) {
		t.Fatal("PrevFree = true after clearing flag")
	}
	if got := PrevSize(mem, p); got != 24 {
		t.Fatalf("PrevSize = %d after clearing flag, want 24", got)
	}
}

func TestNodeLinks(t *testing.T) {
	mem := make([]byte, 64)
	p := uint64(16)

	SetNodePrev(mem, p, 0x1000)
	SetNodeNext(mem, p, 0x2000)

	if got := NodePrev(mem, p); got != 0x1000 {
		t.Fatalf("NodePrev = %#x, want 0x1000", got)
	}
	if got := NodeNext(mem, p); got != 0x2000 {
		t.Fatalf("NodeNext = %#x, want 0x2000", got)
	}
}

func TestAlign8(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 0},
		{1, 8},
		{8, 8},
		{9, 16},
		{16, 16},
		{17, 24},
	}
	for _, c := range cases {
		if got := Align8(c.in); got != c.want {
			t.Errorf("Align8(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAlignUp(t *testing.T) {
	if got := AlignUp(5, 16); got != 16 {
		t.Fatalf("AlignUp(5, 16) = %d, want 16", got)
	}
	if got := AlignUp(32, 16); got != 32 {
		t.Fatalf("AlignUp(32, 16) = %d, want 32", got)
	}
}
