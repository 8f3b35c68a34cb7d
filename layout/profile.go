package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/pagefit/binding"
	"github.com/ByLCY/pagefit/dsl"
)

// Profile 是编译后的配置文件：阈值覆盖、字体表、元信息覆盖与编辑提案。
type Profile struct {
	Name    string
	Version string
	Options Options
	Meta    DocumentMeta
	Edits   []EditProposal
}

// CompileProfile 在 base 之上应用配置文件中的各节。
func CompileProfile(src *dsl.Profile, base Options) (*Profile, error) {
	if src == nil {
		return nil, fmt.Errorf("配置文件为空")
	}
	p := &Profile{Name: src.Name, Version: src.Version, Options: base}
	var fonts FontTable
	for _, section := range src.Sections {
		var err error
		switch {
		case section.Meta != nil:
			p.Meta = collectMeta(section.Meta.Block)
		case section.Settings != nil:
			err = applySettings(&p.Options, section.Settings.Block)
		case section.Fonts != nil:
			var rules FontTable
			rules, err = collectFonts(section.Fonts.Block)
			fonts = append(fonts, rules...)
		case section.Edits != nil:
			var edits []EditProposal
			edits, err = collectEdits(section.Edits.Block)
			p.Edits = append(p.Edits, edits...)
		}
		if err != nil {
			return nil, fmt.Errorf("%s 节: %w", section.Kind(), err)
		}
	}
	if len(fonts) > 0 {
		table := p.Options.Fonts
		if len(table) == 0 {
			table = DefaultFontTable()
		}
		p.Options.Fonts = table.Merge(fonts)
	}
	return p, nil
}

func applySettings(opts *Options, block *dsl.Block) error {
	for key, val := range block.Assignments() {
		raw := val.Text()
		var err error
		switch key {
		case "line-tolerance":
			opts.LineTolerance, err = points(raw)
		case "gap-tolerance":
			opts.GapTolerance, err = points(raw)
		case "padding":
			opts.Padding, err = points(raw)
		case "overlap-min-width":
			opts.OverlapMinWidth, err = points(raw)
		case "overlap-gap":
			opts.OverlapGap, err = points(raw)
		case "multiline-ratio":
			opts.MultilineRatio, err = ParseFactor(raw)
		case "line-height":
			opts.LineHeight, err = ParseFactor(raw)
		case "fit-line-height":
			opts.FitLineHeight, err = ParseFactor(raw)
		case "ellipsis":
			opts.Ellipsis = raw
		default:
			err = fmt.Errorf("未知设置项 %q", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func points(raw string) (float64, error) {
	l, err := ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.Points(), nil
}

// collectFonts 解析 `font <Match> ratio <n> { regular: ".." bold: ".." }`。
func collectFonts(block *dsl.Block) (FontTable, error) {
	var out FontTable
	for _, cmd := range block.Commands("font") {
		if len(cmd.Args) == 0 {
			return nil, fmt.Errorf("第 %d 行: font 缺少字体族", cmd.Pos.Line)
		}
		rule := FamilyRule{Match: cmd.Args[0].Value}
		for i := 1; i < len(cmd.Args); i += 2 {
			key := strings.ToLower(cmd.Args[i].Value)
			if i+1 >= len(cmd.Args) {
				return nil, fmt.Errorf("第 %d 行: %s 缺少取值", cmd.Pos.Line, key)
			}
			if key != "ratio" {
				return nil, fmt.Errorf("第 %d 行: 未知字体参数 %q", cmd.Pos.Line, key)
			}
			ratio, err := strconv.ParseFloat(cmd.Args[i+1].Value, 64)
			if err != nil || ratio <= 0 {
				return nil, fmt.Errorf("第 %d 行: 无效的 ratio %q", cmd.Pos.Line, cmd.Args[i+1].Value)
			}
			rule.WidthRatio = ratio
		}
		attrs := cmd.Block.Assignments()
		if v, ok := attrs["regular"]; ok {
			rule.Regular = v.Text()
		}
		if v, ok := attrs["bold"]; ok {
			rule.Bold = v.Text()
		}
		out = append(out, rule)
	}
	return out, nil
}

func collectEdits(block *dsl.Block) ([]EditProposal, error) {
	var out []EditProposal
	for _, cmd := range block.Commands("edit") {
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("第 %d 行: edit 需要且只需要一个元素 id", cmd.Pos.Line)
		}
		out = append(out, EditProposal{ElementID: cmd.Args[0].Value, ProposedText: cmd.Block.Text()})
	}
	return out, nil
}

func collectMeta(block *dsl.Block) DocumentMeta {
	var meta DocumentMeta
	for key, val := range block.Assignments() {
		switch key {
		case "title":
			meta.Title = val.Text()
		case "author":
			meta.Author = val.Text()
		case "subject":
			meta.Subject = val.Text()
		case "creator":
			meta.Creator = val.Text()
		case "keywords":
			if val.Array != nil {
				meta.Keywords = val.Array.Strings()
			} else if s := val.Text(); s != "" {
				meta.Keywords = []string{s}
			}
		}
	}
	return meta
}

// Merge 用 override 中的非空字段覆盖元信息，统计字段保持不变。
func (m DocumentMeta) Merge(override DocumentMeta) DocumentMeta {
	if override.Title != "" {
		m.Title = override.Title
	}
	if override.Author != "" {
		m.Author = override.Author
	}
	if override.Subject != "" {
		m.Subject = override.Subject
	}
	if override.Creator != "" {
		m.Creator = override.Creator
	}
	if len(override.Keywords) > 0 {
		m.Keywords = override.Keywords
	}
	return m
}

// BindProposals 展开提案文本中的 ${path} 占位符，返回未解析的路径（按提案顺序）。
func BindProposals(proposals []EditProposal, data *binding.Data) ([]EditProposal, []string) {
	out := make([]EditProposal, len(proposals))
	var missing []string
	for i, p := range proposals {
		text, miss := data.Expand(p.ProposedText)
		if len(miss) > 0 {
			Logger().Warn("占位符未解析", "id", p.ElementID, "paths", miss)
			missing = append(missing, miss...)
		}
		out[i] = EditProposal{ElementID: p.ElementID, ProposedText: text}
	}
	return out, missing
}
