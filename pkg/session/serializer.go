package session

import (
	"github.com/cloudwego/hertz/pkg/common/json"
)

// Serializer 属性值的序列化方式
type Serializer interface {
	Serialize(v interface{}) ([]byte, error)
	Deserialize(data []byte) (interface{}, error)
}

// JSONSerializer 采用 JSON 序列化，在 Redis 中可读性好。
// 反序列化后数字为 float64，对象为 map[string]interface{}
type JSONSerializer struct{}

func (JSONSerializer) Serialize(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONSerializer) Deserialize(data []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
