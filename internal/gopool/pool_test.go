package gopool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lybxkl/subengine/common/log"
)

type nopLogger struct{}

func (nopLogger) Close() error                  { return nil }
func (nopLogger) Info(...interface{})           {}
func (nopLogger) Error(...interface{})          {}
func (nopLogger) Warn(...interface{})           {}
func (nopLogger) Debug(...interface{})          {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

var _ log.Logger = nopLogger{}

func TestPoolRunsSubmittedWork(t *testing.T) {
	p, err := New(4, nopLogger{})
	require.NoError(t, err)
	defer p.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	sum := 0

	for i := 1; i <= 10; i++ {
		wg.Add(1)
		i := i
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			sum += i
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Equal(t, 55, sum)
}

func TestPoolDefaultsSizeWhenNonPositive(t *testing.T) {
	p, err := New(0, nopLogger{})
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, 1, p.size)
}
