package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/pagefit/binding"
	"github.com/ByLCY/pagefit/codec"
	"github.com/ByLCY/pagefit/dsl"
	"github.com/ByLCY/pagefit/extract/tabula"
	"github.com/ByLCY/pagefit/layout"
	canvasrenderer "github.com/ByLCY/pagefit/renderer/canvas"
)

type config struct {
	input, output   string
	profile         string
	editsPath       string
	reportPath      string
	constraintsPath string
	data            string
	strict          bool
}

// outcome 汇总一次编辑的结果，供命令行输出。
type outcome struct {
	layout.Summary
	Unresolved []string // 未解析的占位符路径
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "", "待编辑的 PDF 路径")
	flag.StringVar(&cfg.output, "out", "output/edited.pdf", "PDF 输出路径")
	flag.StringVar(&cfg.profile, "profile", "", "配置文件路径（阈值、字体表、编辑）")
	flag.StringVar(&cfg.editsPath, "edits", "", "编辑提案 JSON 文件（[{elementId, proposedText}]）")
	flag.StringVar(&cfg.reportPath, "report", "", "校验结果 JSON 输出路径")
	flag.StringVar(&cfg.constraintsPath, "constraints", "", "元素容量提示 JSON 输出路径")
	flag.StringVar(&cfg.data, "data", "", "绑定到 ${path} 占位符的 JSON 数据")
	flag.BoolVar(&cfg.strict, "strict", false, "存在未解析的占位符时报错退出")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfg.input == "" {
		log.Fatalf("必须通过 -in 指定 PDF 文件")
	}
	res, err := run(cfg)
	if err != nil {
		log.Fatalf("编辑 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s（提案 %d，修改 %d，截断 %d）\n",
		cfg.output, res.Total, res.Edited, res.Truncated)
	if len(res.Unresolved) > 0 {
		fmt.Printf("未解析的占位符 %d 个：%s\n", len(res.Unresolved), strings.Join(res.Unresolved, ", "))
	}
}

// run 串联提取、校验、截断、重叠消解与重建。
func run(cfg config) (outcome, error) {
	profile, err := loadProfile(cfg.profile)
	if err != nil {
		return outcome{}, err
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:   profileDir(cfg.profile),
		FontTable: profile.Options.Fonts,
	})
	opts := profile.Options
	opts.Measurer = r
	engine := layout.NewEngine(opts)
	c := codec.New(tabula.New(), r, engine)

	raw, err := os.ReadFile(cfg.input)
	if err != nil {
		return outcome{}, fmt.Errorf("无法读取 PDF 文件 %s: %w", cfg.input, err)
	}
	doc, err := c.Load(raw)
	if err != nil {
		return outcome{}, err
	}
	if cfg.constraintsPath != "" {
		if err := ensureDir(cfg.constraintsPath); err != nil {
			return outcome{}, err
		}
		if err := engine.WriteConstraints(doc, cfg.constraintsPath); err != nil {
			return outcome{}, fmt.Errorf("输出容量提示失败: %w", err)
		}
	}

	proposals, unresolved, err := collectProposals(profile, cfg)
	if err != nil {
		return outcome{}, err
	}
	result := engine.Apply(doc, proposals)
	res := outcome{Summary: result.Summary, Unresolved: unresolved}

	if cfg.reportPath != "" {
		if err := ensureDir(cfg.reportPath); err != nil {
			return outcome{}, err
		}
		if err := layout.WriteReport(result, cfg.reportPath); err != nil {
			return outcome{}, fmt.Errorf("输出校验结果失败: %w", err)
		}
	}

	doc.Meta = doc.Meta.Merge(profile.Meta)
	out, err := c.Save(doc, result.ValidatedEdits)
	if err != nil {
		return res, err
	}
	if err := ensureDir(cfg.output); err != nil {
		return res, err
	}
	if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
		return res, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return res, nil
}

func loadProfile(path string) (*layout.Profile, error) {
	if path == "" {
		return &layout.Profile{Options: layout.DefaultOptions()}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer file.Close()

	src, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	profile, err := layout.CompileProfile(src, layout.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("配置文件无效: %w", err)
	}
	return profile, nil
}

// collectProposals 合并配置文件与 JSON 文件中的提案（后者在后，同一元素以后者为准），再展开占位符。
// strict 模式下存在未解析的占位符即返回错误。
func collectProposals(profile *layout.Profile, cfg config) ([]layout.EditProposal, []string, error) {
	proposals := append([]layout.EditProposal(nil), profile.Edits...)
	if cfg.editsPath != "" {
		raw, err := os.ReadFile(cfg.editsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取编辑提案 %s: %w", cfg.editsPath, err)
		}
		var extra []layout.EditProposal
		if err := json.Unmarshal(raw, &extra); err != nil {
			return nil, nil, fmt.Errorf("解析编辑提案失败: %w", err)
		}
		proposals = append(proposals, extra...)
	}
	if cfg.data == "" {
		return proposals, nil, nil
	}
	data, err := binding.Decode(strings.NewReader(cfg.data))
	if err != nil {
		return nil, nil, err
	}
	bound, missing := layout.BindProposals(proposals, data)
	if cfg.strict && len(missing) > 0 {
		return nil, missing, fmt.Errorf("占位符未解析: %s", strings.Join(missing, ", "))
	}
	return bound, missing, nil
}

func profileDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
