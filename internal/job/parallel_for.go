package job

// DefaultGrain is the minimum chunk size parallel_for will submit as one
// job, avoiding one-job-per-index overhead for small ranges.
const DefaultGrain = 64

// ParallelFor partitions [begin, end) into chunks of at least grain
// elements (grain<=0 uses DefaultGrain), submits each chunk as one job
// under a shared handle, and waits for all of them. fn must be safe to
// call concurrently from multiple chunks; it is never called twice for
// the same index and every index in [begin, end) is visited exactly once.
//
// If the system has no workers yet, ParallelFor degrades to a sequential
// loop on the caller, matching spec.
func (s *System) ParallelFor(begin, end int, fn func(i int), grain int) {
	if begin >= end {
		return
	}
	if grain <= 0 {
		grain = DefaultGrain
	}

	workers := s.WorkerCount()
	if workers == 0 || !s.running.Load() {
		for i := begin; i < end; i++ {
			fn(i)
		}
		return
	}

	total := end - begin
	chunk := total / (2 * workers)
	if chunk < grain {
		chunk = grain
	}

	h := NewHandle()
	for i := begin; i < end; i += chunk {
		start := i
		finish := start + chunk
		if finish > end {
			finish = end
		}
		s.SubmitWithHandle(func() {
			for j := start; j < finish; j++ {
				fn(j)
			}
		}, h)
	}
	s.Wait(h)
}
