package model

import "testing"

func TestOrientation_Apply(t *testing.T) {
	item := &CargoItem{Length: 3, Width: 2, Height: 1}

	tests := []struct {
		name        string
		orientation Orientation
		expected    Dimensions
	}{
		{"原始姿态", OrientationUpright, Dimensions{Length: 3, Height: 1, Width: 2}},
		{"直立旋转", OrientationUprightRotated, Dimensions{Length: 2, Height: 1, Width: 3}},
		{"侧放", OrientationSideLengthwise, Dimensions{Length: 3, Height: 2, Width: 1}},
		{"侧放旋转", OrientationSideLengthwiseRotated, Dimensions{Length: 1, Height: 2, Width: 3}},
		{"立起", OrientationEndUp, Dimensions{Length: 2, Height: 3, Width: 1}},
		{"立起旋转", OrientationEndUpRotated, Dimensions{Length: 1, Height: 3, Width: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.orientation.Apply(item)
			if d != tt.expected {
				t.Errorf("Apply() = %+v, expected %+v", d, tt.expected)
			}
			// 任何姿态下体积不变
			if v := d.Volume(); v != 6 {
				t.Errorf("姿态变换后体积应为6, 实际 %v", v)
			}
		})
	}
}

func TestAllowedOrientations(t *testing.T) {
	free := &CargoItem{Length: 3, Width: 2, Height: 1}
	if got := AllowedOrientations(free); len(got) != 6 {
		t.Errorf("无约束货物应有6种姿态, 实际 %d", len(got))
	}

	upright := &CargoItem{
		Length: 3, Width: 2, Height: 1,
		Constraints: []ItemConstraint{{Type: ConstraintMustBeUpright}},
	}
	got := AllowedOrientations(upright)
	if len(got) != 2 {
		t.Fatalf("直立货物应只有2种姿态, 实际 %d", len(got))
	}
	// 两种直立姿态的高度都保持原始高度
	for _, o := range got {
		if d := o.Apply(upright); d.Height != upright.Height {
			t.Errorf("直立姿态 %d 的高度应为 %v, 实际 %v", o, upright.Height, d.Height)
		}
	}
}
