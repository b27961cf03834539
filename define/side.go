package define

import "strings"

// Side 分体键盘的左右两半
type Side int

const (
	SIDE_UNKNOWN Side = 0
	SIDE_LEFT    Side = 0x28
	SIDE_RIGHT   Side = 0x27
)

func (s Side) String() string {
	switch s {
	case SIDE_LEFT:
		return "左半"
	case SIDE_RIGHT:
		return "右半"
	}
	return "未知"
}

// Key 返回用于配置和报文的英文标识
func (s Side) Key() string {
	switch s {
	case SIDE_LEFT:
		return "left"
	case SIDE_RIGHT:
		return "right"
	}
	return ""
}

func SideFromString(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return SIDE_LEFT
	case "right", "r":
		return SIDE_RIGHT
	}
	return SIDE_UNKNOWN
}

// 链路角色
const (
	ROLE_MASTER = "master"
	ROLE_SLAVE  = "slave"
)
