package concurrent_test

import (
	"testing"

	"lintang/searoute/pkg/concurrent"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	jobs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	workers := concurrent.NewWorkerPool[int, int](3, len(jobs))
	for _, j := range jobs {
		workers.AddJob(j)
	}
	workers.Close()

	workers.Start(func(j int) int { return j * j })
	workers.Wait()

	sum := 0
	count := 0
	for r := range workers.CollectResults() {
		sum += r
		count++
	}
	assert.Equal(t, len(jobs), count)
	assert.Equal(t, 385, sum)
}

func TestWorkerPoolAtLeastOneWorker(t *testing.T) {
	workers := concurrent.NewWorkerPool[string, int](0, 2)
	workers.AddJob("sea")
	workers.AddJob("route")
	workers.Close()

	workers.Start(func(s string) int { return len(s) })
	workers.Wait()

	total := 0
	for r := range workers.CollectResults() {
		total += r
	}
	assert.Equal(t, 8, total)
}
