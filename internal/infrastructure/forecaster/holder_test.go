package forecaster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	closed int
}

func (m *stubModel) Generate(context.Context, []float64, int, int) ([][]float64, error) {
	return [][]float64{{1}}, nil
}

func (m *stubModel) Close() error {
	m.closed++
	return nil
}

func TestHolder_LoadsOnce(t *testing.T) {
	var mu sync.Mutex
	loads := 0
	model := &stubModel{}
	h := NewHolder(func(context.Context) (Model, error) {
		mu.Lock()
		loads++
		mu.Unlock()
		return model, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := h.Get(context.Background())
			assert.NoError(t, err)
			assert.Same(t, model, m)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, loads)
	assert.True(t, h.Loaded())
}

func TestHolder_FailureNotCached(t *testing.T) {
	attempts := 0
	h := NewHolder(func(context.Context) (Model, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("weights missing")
		}
		return &stubModel{}, nil
	})

	_, err := h.Get(context.Background())
	require.Error(t, err)
	assert.False(t, h.Loaded())

	m, err := h.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Equal(t, 2, attempts)
}

func TestHolder_Close(t *testing.T) {
	model := &stubModel{}
	h := NewHolder(func(context.Context) (Model, error) { return model, nil })
	_, err := h.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.Close())
	assert.Equal(t, 1, model.closed)
	assert.False(t, h.Loaded())

	_, err = h.Get(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, h.Close())
	assert.Equal(t, 1, model.closed)
}

func TestRemoteLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/model":
			_, _ = w.Write([]byte(`{"model_name":"Predenergy","ready":true}`))
		case "/generate":
			_, _ = w.Write([]byte(`{"samples":[[1,2],[3,4]]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	m, err := RemoteLoader(srv.URL, time.Second)(context.Background())
	require.NoError(t, err)

	samples, err := m.Generate(context.Background(), []float64{1, 2, 3}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, samples)
	assert.NoError(t, m.Close())
}

func TestRemoteLoader_NotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model_name":"Predenergy","ready":false}`))
	}))
	defer srv.Close()

	_, err := RemoteLoader(srv.URL, time.Second)(context.Background())
	assert.Error(t, err)
}
