package model

// 请求/响应数据结构
type (
	UserVO struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}

	UserAddDTO struct {
		Username string `json:"username" form:"username" query:"username"`
		Password string `json:"password" form:"password" query:"password"`
	}

	UserUpdateDTO struct {
		ID       int    `json:"id" form:"id" query:"id"`
		Username string `json:"username" form:"username" query:"username"`
		Password string `json:"password" form:"password" query:"password"`
	}
)

// FixedUsers 演示用的固定用户列表
func FixedUsers() []UserVO {
	return []UserVO{
		{ID: 1, Username: "yudaoyuanma"},
		{ID: 2, Username: "woshiyutou"},
		{ID: 3, Username: "chifanshuijiao"},
	}
}
