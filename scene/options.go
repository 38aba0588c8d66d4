package scene

import (
	"github.com/charmbracelet/log"

	"github.com/ByLCY/tilefit/sizepolicy"
)

// BuildOptions 配置场景求解阶段的依赖。
type BuildOptions struct {
	// DefaultPolicy 用于未写 policy 的区域。
	DefaultPolicy sizepolicy.Policy
	// Logger 为空时不输出日志。
	Logger *log.Logger
}
