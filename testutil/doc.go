// Package testutil provides testing utilities for rawvec.
//
// This package is intended for use in tests and benchmarks only.
//
// # Fault Injection
//
//	fa := testutil.NewFailingAllocator(alloc.NewHeap())
//	fa.FailAfter(2) // the third allocator call returns nil
//
// # Drop Tracking
//
//	tr := testutil.NewDropTracker()
//	defer tr.Close()
//	x := tr.New(42)  // a Tracked element with a unique serial
//	tr.Live()        // created minus dropped
//	tr.Drops(x)      // how often x was dropped
//
// # Random Operation Sequences
//
//	rng := testutil.NewRNG(seed)
//	n := rng.Intn(100)
package testutil
