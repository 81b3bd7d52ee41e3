package model

// Container 容器（货柜）定义
// 一次装箱运行内不可变
type Container struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	MaxWeight float64 `json:"maxWeight"`
}

// Volume 计算容器体积
func (c *Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// Dims 返回容器的轴对齐尺寸
func (c *Container) Dims() Dimensions {
	return Dimensions{Length: c.Length, Height: c.Height, Width: c.Width}
}

// IsValid 检查容器定义是否合法
func (c *Container) IsValid() bool {
	return c != nil && c.Length > 0 && c.Width > 0 && c.Height > 0 && c.MaxWeight > 0
}
