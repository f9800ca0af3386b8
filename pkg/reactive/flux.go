package reactive

import "context"

// Flux 产生 0..N 个元素的惰性推送流
type Flux[T any] struct {
	source func(ctx context.Context, emit func(T) bool) error
}

// FromSlice 依次发射切片中的元素
func FromSlice[T any](items []T) Flux[T] {
	return Flux[T]{source: func(ctx context.Context, emit func(T) bool) error {
		for _, item := range items {
			if !emit(item) {
				return nil
			}
		}
		return nil
	}}
}

// Items 可变参数版本的 FromSlice
func Items[T any](items ...T) Flux[T] {
	return FromSlice(items)
}

// FromChan 发射通道中的元素直到通道关闭
func FromChan[T any](ch <-chan T) Flux[T] {
	return Flux[T]{source: func(ctx context.Context, emit func(T) bool) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case item, ok := <-ch:
				if !ok {
					return nil
				}
				if !emit(item) {
					return nil
				}
			}
		}
	}}
}

// Range 发射 [start, start+count) 的整数
func Range(start, count int) Flux[int] {
	return Flux[int]{source: func(ctx context.Context, emit func(int) bool) error {
		for i := start; i < start+count; i++ {
			if !emit(i) {
				return nil
			}
		}
		return nil
	}}
}

// FluxError 订阅时直接返回错误
func FluxError[T any](err error) Flux[T] {
	return Flux[T]{source: func(context.Context, func(T) bool) error {
		return err
	}}
}

func MapFlux[T, R any](f Flux[T], fn func(T) R) Flux[R] {
	return Flux[R]{source: func(ctx context.Context, emit func(R) bool) error {
		return f.Subscribe(ctx, func(v T) bool {
			return emit(fn(v))
		})
	}}
}

func (f Flux[T]) Filter(pred func(T) bool) Flux[T] {
	return Flux[T]{source: func(ctx context.Context, emit func(T) bool) error {
		return f.Subscribe(ctx, func(v T) bool {
			if !pred(v) {
				return true
			}
			return emit(v)
		})
	}}
}

// Take 只取前 n 个元素，之后取消上游
func (f Flux[T]) Take(n int) Flux[T] {
	return Flux[T]{source: func(ctx context.Context, emit func(T) bool) error {
		if n <= 0 {
			return nil
		}
		taken := 0
		return f.Subscribe(ctx, func(v T) bool {
			taken++
			if !emit(v) {
				return false
			}
			return taken < n
		})
	}}
}

// CollectList 收集全部元素，空流得到空切片而不是 nil
func CollectList[T any](f Flux[T]) Mono[[]T] {
	return Mono[[]T]{source: func(ctx context.Context) ([]T, bool, error) {
		out := make([]T, 0)
		err := f.Subscribe(ctx, func(v T) bool {
			out = append(out, v)
			return true
		})
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	}}
}

// Subscribe 推送元素给 onNext，onNext 返回 false 或 ctx 取消时停止
func (f Flux[T]) Subscribe(ctx context.Context, onNext func(T) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.source == nil {
		return nil
	}
	var cancelled error
	err := f.source(ctx, func(v T) bool {
		if cancelled = ctx.Err(); cancelled != nil {
			return false
		}
		return onNext(v)
	})
	if err != nil {
		return err
	}
	return cancelled
}

func (f Flux[T]) SubscribeAny(ctx context.Context, onNext func(interface{}) bool) error {
	return f.Subscribe(ctx, func(v T) bool {
		return onNext(v)
	})
}

func (f Flux[T]) Cardinality() Cardinality {
	return Multi
}
