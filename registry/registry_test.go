package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct{ id int }

func TestLoad_ReturnsCreated(t *testing.T) {
	r := New()
	c, err := Load(r, "a", func() (*fakeClient, error) { return &fakeClient{id: 1}, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, c.id)
}

func TestLoad_ReturnsCached(t *testing.T) {
	r := New()
	first, err := Load(r, "a", func() (*fakeClient, error) { return &fakeClient{id: 1}, nil })
	require.NoError(t, err)

	second, err := Load(r, "a", func() (*fakeClient, error) { return &fakeClient{id: 2}, nil })
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestLoad_CachedByName(t *testing.T) {
	r := New()
	a, _ := Load(r, "a", func() (*fakeClient, error) { return &fakeClient{id: 1}, nil })
	b, _ := Load(r, "b", func() (*fakeClient, error) { return &fakeClient{id: 2}, nil })

	assert.NotSame(t, a, b)
	assert.ElementsMatch(t, []string{"a", "b"}, r.Names())
}

func TestLoad_TypeMismatch(t *testing.T) {
	r := New()
	_, err := Load(r, "a", func() (*fakeClient, error) { return &fakeClient{}, nil })
	require.NoError(t, err)

	_, err = Load(r, "a", func() (string, error) { return "x", nil })
	assert.Error(t, err)
}

func TestLoad_CreateErrorNotCached(t *testing.T) {
	r := New()
	boom := errors.New("boom")
	_, err := Load(r, "a", func() (*fakeClient, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.Names())
}

func TestLoad_NilRegistry(t *testing.T) {
	calls := 0
	create := func() (*fakeClient, error) { calls++; return &fakeClient{id: calls}, nil }

	a, _ := Load[*fakeClient](nil, "a", create)
	b, _ := Load[*fakeClient](nil, "a", create)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, calls)
}

func TestLoad_Concurrent(t *testing.T) {
	r := New()
	var mu sync.Mutex
	created := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Load(r, "shared", func() (*fakeClient, error) {
				mu.Lock()
				created++
				mu.Unlock()
				return &fakeClient{}, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}
