package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterCounts(t *testing.T) {
	r := New()
	r.Start()

	r.Served()
	r.Served()
	r.NotFound()
	r.Error()

	served, notFound, errs := r.Totals()
	assert.Equal(t, 2, served)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, 1, errs)

	r.Finish()
}

func TestReporterConcurrentUpdates(t *testing.T) {
	r := New()
	r.Start()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Served()
		}()
	}
	wg.Wait()

	served, _, _ := r.Totals()
	assert.Equal(t, 50, served)
}
