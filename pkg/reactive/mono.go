package reactive

import "context"

// Mono 至多产生一个元素的惰性容器
type Mono[T any] struct {
	source func(ctx context.Context) (T, bool, error)
}

// Just 包装一个已经就绪的值
func Just[T any](v T) Mono[T] {
	return Mono[T]{source: func(context.Context) (T, bool, error) {
		return v, true, nil
	}}
}

// Empty 不产生任何元素
func Empty[T any]() Mono[T] {
	return Mono[T]{}
}

// MonoError 订阅时直接返回错误
func MonoError[T any](err error) Mono[T] {
	return Mono[T]{source: func(context.Context) (T, bool, error) {
		var zero T
		return zero, false, err
	}}
}

// MonoFromFunc 订阅时才调用 fn
func MonoFromFunc[T any](fn func(ctx context.Context) (T, error)) Mono[T] {
	return Mono[T]{source: func(ctx context.Context) (T, bool, error) {
		v, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		return v, true, nil
	}}
}

// MapMono 对元素做同步转换，空或出错时原样传递
func MapMono[T, R any](m Mono[T], fn func(T) R) Mono[R] {
	return Mono[R]{source: func(ctx context.Context) (R, bool, error) {
		var zero R
		v, ok, err := m.Block(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		return fn(v), true, nil
	}}
}

// FlatMapMono 用元素生成下一个 Mono
func FlatMapMono[T, R any](m Mono[T], fn func(T) Mono[R]) Mono[R] {
	return Mono[R]{source: func(ctx context.Context) (R, bool, error) {
		var zero R
		v, ok, err := m.Block(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		return fn(v).Block(ctx)
	}}
}

// Block 订阅并等待结果，ok 为 false 表示为空
func (m Mono[T]) Block(ctx context.Context) (value T, ok bool, err error) {
	if err = ctx.Err(); err != nil {
		return value, false, err
	}
	if m.source == nil {
		return value, false, nil
	}
	return m.source(ctx)
}

func (m Mono[T]) SubscribeAny(ctx context.Context, onNext func(interface{}) bool) error {
	v, ok, err := m.Block(ctx)
	if err != nil || !ok {
		return err
	}
	onNext(v)
	return nil
}

func (m Mono[T]) Cardinality() Cardinality {
	return Single
}
