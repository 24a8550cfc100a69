package utils_test

import (
	"sync/atomic"
	"testing"

	"github.com/benmeehan/home-sentinel/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := utils.NewWorkerPool(3)

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		pool.Submit(func() { done.Add(1) })
	}
	pool.Shutdown()

	assert.Equal(t, int32(20), done.Load())
}

func TestWorkerPool_ZeroWorkers(t *testing.T) {
	pool := utils.NewWorkerPool(0)

	var ran atomic.Bool
	pool.Submit(func() { ran.Store(true) })
	pool.Shutdown()

	assert.True(t, ran.Load())
}
