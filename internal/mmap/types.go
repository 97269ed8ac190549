package mmap

import "errors"

// Advice tells the kernel how a mapping's pages will be touched.
type Advice uint8

const (
	AdviceNormal     Advice = iota // no specific expectation
	AdviceSequential               // read front to back, read-ahead aggressively
	AdviceRandom                   // no read-ahead
	AdviceWillNeed                 // fault the pages in soon
	AdviceDontNeed                 // pages may be dropped; anonymous pages read back as zero
)

func (a Advice) String() string {
	switch a {
	case AdviceNormal:
		return "normal"
	case AdviceSequential:
		return "sequential"
	case AdviceRandom:
		return "random"
	case AdviceWillNeed:
		return "willneed"
	case AdviceDontNeed:
		return "dontneed"
	}
	return "unknown"
}

var (
	// ErrClosed is returned by Advise on a mapping that was closed.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned by MapAnon for a size that is not positive
	// or cannot be rounded to whole pages.
	ErrInvalidSize = errors.New("mmap: invalid size")
)
