// Package reactive 提供单值（Mono）与多值（Flux）的惰性异步容器。
//
// 容器在订阅时才执行，一次订阅对应一次请求，不做背压；
// 订阅的 context 取消后立即停止发射。
package reactive

import "context"

// Cardinality 发布者可能产生的元素个数
type Cardinality int

const (
	Single Cardinality = iota // 0..1
	Multi                     // 0..N
)

// Publisher 类型擦除后的发布者，供渲染层统一处理 Mono 与 Flux
type Publisher interface {
	// SubscribeAny 依次推送元素，onNext 返回 false 表示取消订阅
	SubscribeAny(ctx context.Context, onNext func(interface{}) bool) error
	Cardinality() Cardinality
}
