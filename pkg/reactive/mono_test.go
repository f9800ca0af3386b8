package reactive

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJustAndEmpty(t *testing.T) {
	ctx := context.Background()

	v, ok, err := Just(42).Block(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok, err = Empty[int]().Block(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMonoFromFuncIsLazy(t *testing.T) {
	calls := 0
	m := MonoFromFunc(func(context.Context) (string, error) {
		calls++
		return "x", nil
	})
	assert.Equal(t, 0, calls)

	v, _, err := m.Block(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.Equal(t, 1, calls)
}

func TestMapAndFlatMap(t *testing.T) {
	ctx := context.Background()
	m := MapMono(Just(1), func(i int) string { return "username:" + strconv.Itoa(i) })
	v, _, err := m.Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, "username:1", v)

	f := FlatMapMono(Just(2), func(i int) Mono[int] { return Just(i * 10) })
	n, _, err := f.Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, ok, err := MapMono(Empty[int](), func(i int) int { return i }).Block(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMonoErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := MapMono(MonoError[int](boom), func(i int) int { return i }).Block(context.Background())
	assert.ErrorIs(t, err, boom)

	_, _, err = FlatMapMono(MonoError[int](boom), func(i int) Mono[int] { return Just(i) }).Block(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMonoBlockCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Just(1).Block(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMonoAsPublisher(t *testing.T) {
	var p Publisher = Just("demo")
	assert.Equal(t, Single, p.Cardinality())

	var got []interface{}
	require.NoError(t, p.SubscribeAny(context.Background(), func(v interface{}) bool {
		got = append(got, v)
		return true
	}))
	assert.Equal(t, []interface{}{"demo"}, got)
}
