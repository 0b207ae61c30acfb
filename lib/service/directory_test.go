package service

import (
	"fmt"
	"sync"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestDirectory_AddService(t *testing.T) {
	d := NewDirectory()

	assert.Assert(t, d.AddService(Service{Name: "clock", Provider: "libclock.so", Handle: 1}))
	assert.Assert(t, d.AddService(Service{Name: "marshal", Provider: "libmarshal.so", Handle: 2}))

	s, ok := d.Lookup("clock")
	assert.Assert(t, ok)
	assert.Equal(t, s.Provider, "libclock.so")
	assert.DeepEqual(t, d.Services(), []string{"clock", "marshal"})
}

func TestDirectory_RejectsDuplicatesAndEmpty(t *testing.T) {
	d := NewDirectory()

	assert.Assert(t, d.AddService(Service{Name: "clock", Handle: 1}))
	assert.Assert(t, !d.AddService(Service{Name: "clock", Handle: 9}))
	assert.Assert(t, !d.AddService(Service{Name: "nohandle"}))
	assert.Assert(t, !d.AddService(Service{Handle: 3}))

	s, _ := d.Lookup("clock")
	assert.Equal(t, s.Handle, uintptr(1))
	assert.Assert(t, is.Len(d.Services(), 1))
}

func TestDirectory_Concurrent(t *testing.T) {
	d := NewDirectory()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.AddService(Service{Name: fmt.Sprintf("svc-%d", i%8), Handle: uintptr(i + 1)})
		}(i)
	}
	wg.Wait()

	assert.Assert(t, is.Len(d.Services(), 8))
}

func TestGlobal_Singleton(t *testing.T) {
	assert.Assert(t, Global() == Global())
}

func TestNamedContext(t *testing.T) {
	c := NamedContext{ContextName: "controller", Ptr: 42}
	assert.Equal(t, c.Name(), "controller")
	assert.Equal(t, c.Handle(), uintptr(42))
}
