package normalize

// Rand draws uniform integers in [0, n). *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// DropCounter records items discarded during normalization, by reason.
type DropCounter interface {
	Dropped(reason string)
}
