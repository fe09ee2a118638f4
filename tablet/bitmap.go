package tablet

// bitmap is a fixed-size presence set, one bit per row.
type bitmap []byte

func newBitmap(n int) bitmap {
	return make(bitmap, (n+7)/8)
}

func (b bitmap) set(i int) {
	b[i>>3] |= 1 << (i & 7)
}

func (b bitmap) has(i int) bool {
	return b[i>>3]&(1<<(i&7)) != 0
}

func (b bitmap) clear() {
	for i := range b {
		b[i] = 0
	}
}
