package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/tilefit/binding"
	"github.com/ByLCY/tilefit/config"
	"github.com/ByLCY/tilefit/dsl"
	"github.com/ByLCY/tilefit/geom"
	"github.com/ByLCY/tilefit/renderer"
	canvasrenderer "github.com/ByLCY/tilefit/renderer/canvas"
	"github.com/ByLCY/tilefit/scene"
	"github.com/ByLCY/tilefit/sizehint"
	"github.com/ByLCY/tilefit/sizepolicy"
)

// app 保存各子命令共享的状态，配置在 PersistentPreRunE 中加载。
type app struct {
	logger     *log.Logger
	cfg        *config.Config
	configPath string
	verbose    bool
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{
		logger: log.NewWithOptions(errOut, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.InfoLevel,
		}),
	}

	root := &cobra.Command{
		Use:           "tilefit",
		Short:         "按 size policy 求解窗口区域在容器中的位置",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			a.cfg = cfg
			level, err := log.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			if a.verbose {
				level = log.DebugLevel
			}
			a.logger.SetLevel(level)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "配置文件路径（默认查找 $XDG_CONFIG_HOME/tilefit/config.toml）")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(a.renderCommand())
	root.AddCommand(a.resolveCommand())
	root.AddCommand(a.policiesCommand())
	return root
}

func (a *app) renderCommand() *cobra.Command {
	var output, debugPath, dataPath string
	cmd := &cobra.Command{
		Use:   "render SCENE",
		Short: "解析场景文件并输出 PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data any
			if dataPath != "" {
				d, err := binding.LoadData(dataPath)
				if err != nil {
					return err
				}
				data = d
			}
			r := canvasrenderer.NewRenderer(canvasrenderer.Options{
				Scale:   a.cfg.Render.Scale.ToMM(),
				Margin:  a.cfg.Render.Margin.ToMM(),
				Palette: a.cfg.Render.Palette,
			})
			if err := a.renderScene(cmd.Context(), args[0], output, debugPath, data, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "output/scene.pdf", "PDF 输出路径")
	cmd.Flags().StringVar(&debugPath, "debug", "", "求解结果调试 JSON 输出路径")
	cmd.Flags().StringVar(&dataPath, "data", "", "绑定到场景的 JSON/YAML 数据文件")
	return cmd
}

// renderScene 串联解析、求解与渲染。
func (a *app) renderScene(ctx context.Context, inputPath, outputPath, debugPath string, data any, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开场景文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(inputPath, file)
	if err != nil {
		return fmt.Errorf("解析场景失败: %w", err)
	}
	a.logger.Debug("parsed", "file", inputPath, "scene", doc.Name, "sections", len(doc.Sections))

	result, err := scene.Build(doc, data, scene.BuildOptions{
		DefaultPolicy: a.cfg.Scene.DefaultPolicy,
		Logger:        a.logger,
	})
	if err != nil {
		return fmt.Errorf("场景求解失败: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	a.logger.Info("rendered", "output", outputPath, "frames", len(result.Frames))
	return nil
}

func writeDebug(result *scene.Result, debugPath string) error {
	if err := scene.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// flagRegion 是 resolve 命令用 --current 构造的区域。
type flagRegion struct {
	geometry geom.Rect
}

func (f flagRegion) Geometry() geom.Rect       { return f.geometry }
func (f flagRegion) SizeHints() sizehint.Hints { return sizehint.Hints{} }

func (a *app) resolveCommand() *cobra.Command {
	var policyName, boundArg, rectArg, currentArg, weakArg string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "对单个区域求解一次并打印结果",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := sizepolicy.Lookup(policyName)
			if !ok {
				return fmt.Errorf("未知的 size policy %q", policyName)
			}
			bound, err := geom.ParseRect(boundArg)
			if err != nil {
				return fmt.Errorf("--bound: %w", err)
			}
			var rq *geom.Rect
			if rectArg != "" {
				r, err := geom.ParseRect(rectArg)
				if err != nil {
					return fmt.Errorf("--rect: %w", err)
				}
				rq = &r
			}
			var reg sizehint.Region
			if currentArg != "" {
				cur, err := geom.ParseRect(currentArg)
				if err != nil {
					return fmt.Errorf("--current: %w", err)
				}
				reg = flagRegion{geometry: cur}
			}
			flags, ok := sizepolicy.ParseFlags(weakArg)
			if !ok {
				return fmt.Errorf("--weak: 无法解析弱标记 %q", weakArg)
			}

			fit, next := sizepolicy.Resolve(p, reg, rq, flags, bound)
			a.logger.Debug("resolved", "policy", p, "bound", bound, "weak", flags, "mode", fit.Mode())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode: %s\n", fit.Mode())
			if r, ok := fit.Rect(); ok {
				fmt.Fprintf(out, "rect: %s\n", r)
			}
			fmt.Fprintf(out, "policy: %s\n", next)
			return nil
		},
	}
	cmd.Flags().StringVar(&policyName, "policy", "default", "size policy 名称")
	cmd.Flags().StringVar(&boundArg, "bound", "", "容器边界 x,y,w,h")
	cmd.Flags().StringVar(&rectArg, "rect", "", "请求的几何 x,y,w,h")
	cmd.Flags().StringVar(&currentArg, "current", "", "区域当前几何 x,y,w,h")
	cmd.Flags().StringVar(&weakArg, "weak", "", "弱标记，取自 xywh")
	_ = cmd.MarkFlagRequired("bound")
	return cmd
}

func (a *app) policiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "列出全部 size policy 名称及其位模式",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range sizepolicy.Names() {
				p, _ := sizepolicy.Lookup(name)
				fmt.Fprintf(tw, "%s\t0x%04x\n", name, p.Bits())
			}
			return tw.Flush()
		},
	}
}
