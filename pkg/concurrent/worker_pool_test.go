package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	pool := NewWorkerPool[int, int](4, 100)
	pool.Start(func(job int) int {
		return job * job
	})

	for i := 0; i < 100; i++ {
		pool.AddJob(i)
	}
	pool.Close()
	pool.Wait()

	results := make([]int, 0, 100)
	for res := range pool.CollectResults() {
		results = append(results, res)
	}
	sort.Ints(results)

	assert.Len(t, results, 100)
	assert.Equal(t, 0, results[0])
	assert.Equal(t, 99*99, results[99])
}

func TestMapKeepsJobOrder(t *testing.T) {
	jobs := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff"}

	lengths := Map(3, jobs, func(job string) int {
		return len(job)
	})

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, lengths)
}

func TestMapNoJobs(t *testing.T) {
	results := Map(0, []int{}, func(job int) int {
		return job
	})
	assert.Empty(t, results)
}
