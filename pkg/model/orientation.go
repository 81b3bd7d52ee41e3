package model

// Orientation 物品的轴对齐旋转姿态
// 长方体最多有6种轴对齐姿态；前2种保持高度方向竖直（直立姿态）
type Orientation int

const (
	// OrientationUpright 原始姿态（长沿X，宽沿Z，高竖直）
	OrientationUpright Orientation = iota
	// OrientationUprightRotated 绕竖直轴旋转90°（长宽互换）
	OrientationUprightRotated
	// OrientationSideLengthwise 沿长度方向侧放（宽竖直）
	OrientationSideLengthwise
	// OrientationSideLengthwiseRotated 沿长度方向侧放并旋转
	OrientationSideLengthwiseRotated
	// OrientationEndUp 立起（长竖直）
	OrientationEndUp
	// OrientationEndUpRotated 立起并旋转
	OrientationEndUpRotated

	// OrientationCount 姿态总数
	OrientationCount
)

// UprightOrientationCount 直立姿态数量
const UprightOrientationCount = 2

// Apply 返回物品在该姿态下的轴对齐尺寸
func (o Orientation) Apply(item *CargoItem) Dimensions {
	l, w, h := item.Length, item.Width, item.Height
	switch o {
	case OrientationUpright:
		return Dimensions{Length: l, Height: h, Width: w}
	case OrientationUprightRotated:
		return Dimensions{Length: w, Height: h, Width: l}
	case OrientationSideLengthwise:
		return Dimensions{Length: l, Height: w, Width: h}
	case OrientationSideLengthwiseRotated:
		return Dimensions{Length: h, Height: w, Width: l}
	case OrientationEndUp:
		return Dimensions{Length: w, Height: l, Width: h}
	case OrientationEndUpRotated:
		return Dimensions{Length: h, Height: l, Width: w}
	default:
		return Dimensions{Length: l, Height: h, Width: w}
	}
}

// AllowedOrientations 返回物品允许的姿态列表
// MUST_BE_UPRIGHT 约束将姿态集合缩减为2种直立姿态
func AllowedOrientations(item *CargoItem) []Orientation {
	if item.HasConstraint(ConstraintMustBeUpright) {
		return []Orientation{OrientationUpright, OrientationUprightRotated}
	}
	orientations := make([]Orientation, 0, OrientationCount)
	for o := OrientationUpright; o < OrientationCount; o++ {
		orientations = append(orientations, o)
	}
	return orientations
}
