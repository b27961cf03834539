package policy

import (
	"fmt"
	"sort"

	"keyvis/define"
	"keyvis/visualizer"
)

// Constructor 根据配置创建策略
type Constructor func(cfg *define.Config) visualizer.Policy

// PolicyFactory 策略工厂
type PolicyFactory struct {
	constructors map[string]Constructor
}

var defaultFactory = &PolicyFactory{
	constructors: make(map[string]Constructor),
}

// RegisterPolicy 注册策略
func RegisterPolicy(name string, constructor Constructor) {
	defaultFactory.constructors[name] = constructor
}

// CreatePolicy 创建策略实例
func CreatePolicy(name string, cfg *define.Config) (visualizer.Policy, error) {
	constructor, ok := defaultFactory.constructors[name]
	if !ok {
		return nil, fmt.Errorf("未知的动画策略: %s", name)
	}
	if cfg == nil {
		cfg = &define.Config{Display: define.DisplayConfig{Backlight: true, ShowLayers: true}}
	}
	return constructor(cfg), nil
}

// GetSupportedPolicies 获取支持的策略列表
func GetSupportedPolicies() []string {
	names := make([]string, 0, len(defaultFactory.constructors))
	for name := range defaultFactory.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
