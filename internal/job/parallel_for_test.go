package job

import "testing"

func TestParallelForCorrectness(t *testing.T) {
	s := NewSystem(4)
	s.Start()
	defer s.Shutdown()

	const n = 10000
	a := make([]int64, n)
	s.ParallelFor(0, n, func(i int) {
		a[i] = int64(i) * int64(i)
	}, 128)

	var sum int64
	for i, v := range a {
		if v != int64(i)*int64(i) {
			t.Fatalf("a[%d] = %d, want %d", i, v, int64(i)*int64(i))
		}
		sum += v
	}
	if sum != 333283335000 {
		t.Errorf("sum = %d, want 333283335000", sum)
	}
}

func TestParallelForEmptyRange(t *testing.T) {
	s := NewSystem(2)
	s.Start()
	defer s.Shutdown()

	called := false
	s.ParallelFor(5, 5, func(int) { called = true }, 64)
	if called {
		t.Error("fn must not be called for an empty range")
	}
}

func TestParallelForWithoutWorkersRunsSequentially(t *testing.T) {
	s := NewSystem(2) // never started

	visited := make([]bool, 16)
	s.ParallelFor(0, 16, func(i int) { visited[i] = true }, 4)
	for i, v := range visited {
		if !v {
			t.Errorf("index %d not visited", i)
		}
	}
}
