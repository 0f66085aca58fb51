package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	var km KeyedMutex
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("receipt:20240101")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_OverlappingKeysDoNotDeadlock(t *testing.T) {
	var km KeyedMutex
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			km.Lock("menu:1", "menu:2", "menu:1")()
		}()
		go func() {
			defer wg.Done()
			km.Lock("menu:2", "menu:1")()
		}()
	}
	wg.Wait()
}
