// Package verify 是第三方身份验证组件的边界。
// 组件自身的挑战/扫码协议是外部系统，这里只透传配置并定义回调形状，
// 不持久化任何验证结果。
package verify

// Result 组件回调回来的验证结果，只有一个布尔标志
type Result struct {
	AccountID string `json:"account_id"`
	Verified  bool   `json:"verified"`
}

// Callback 验证完成时的回调
type Callback func(Result)

// WidgetConfig 前端挂载组件所需的透传配置
type WidgetConfig struct {
	WidgetURL string `json:"widget_url"`
}
