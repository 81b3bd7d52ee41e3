package builtin

import (
	"github.com/zhuangxiang/zhuangxiang/pkg/packer/constraint"
)

// RegisterDefaultConstraints 注册全部内置落位约束
// MUST_BE_UPRIGHT 不在此列：它作用于姿态枚举，由 model.AllowedOrientations 收紧
func RegisterDefaultConstraints(m *constraint.Manager) {
	m.Register(NewWeightLimitConstraint())
	m.Register(NewFragileTopConstraint())
	m.Register(NewSupportLimitConstraint())
	m.Register(NewMustBeOnTopConstraint())
	m.Register(NewMustBeOnBottomConstraint())
}
