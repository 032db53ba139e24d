package source

// alignDown rounds off down to a multiple of granularity, which must be a power of two.
func alignDown(off, granularity int64) int64 {
	return off &^ (granularity - 1)
}
