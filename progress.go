package osmnetwork

// Progress receives one unit per processed way (building) or edge (geometry construction)
type Progress interface {
	Advance()
}

// ProgressFunc adapts plain function to Progress
type ProgressFunc func()

func (f ProgressFunc) Advance() {
	f()
}

func advance(progress Progress) {
	if progress != nil {
		progress.Advance()
	}
}
