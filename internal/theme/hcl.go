package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/yockii/ppt_tools/pkg/util"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// 主题文件结构，所有字段可选，缺失项统一交给 Validate 报告
type hclFile struct {
	Name        string     `hcl:"name,optional"`
	DisplayName string     `hcl:"display_name,optional"`
	Description string     `hcl:"description,optional"`
	Logo        string     `hcl:"logo,optional"`
	Colors      *hclColors `hcl:"colors,block"`
	Fonts       *hclFonts  `hcl:"fonts,block"`
}

type hclColors struct {
	Primary    string `hcl:"primary,optional"`
	Secondary  string `hcl:"secondary,optional"`
	Background string `hcl:"background,optional"`
	Text       string `hcl:"text,optional"`
	Accent     string `hcl:"accent,optional"`
	Muted      string `hcl:"muted,optional"`
}

type hclFonts struct {
	Heading          string `hcl:"heading,optional"`
	Body             string `hcl:"body,optional"`
	HeadingUppercase bool   `hcl:"heading_uppercase,optional"`
}

// LoadHCL 读取HCL格式的自定义主题文件，logo路径相对于主题文件
//
//	name         = "acme"
//	display_name = "Acme"
//	description  = "Brand colors"
//	logo         = "acme.png"
//	colors {
//	  primary   = "#123456"
//	  secondary = mix(builtin.corporate.secondary, "#ffffff", 0.2)
//	  ...
//	}
//	fonts {
//	  heading = "Georgia"
//	  body    = "Arial"
//	}
func LoadHCL(path string) (Theme, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("reading theme file: %w", err)
	}
	t, logo, err := ParseHCL(src, path)
	if err != nil {
		return Theme{}, err
	}
	if logo != "" {
		if !filepath.IsAbs(logo) {
			logo = filepath.Join(filepath.Dir(path), logo)
		}
		data, err := os.ReadFile(logo)
		if err != nil {
			return Theme{}, fmt.Errorf("reading logo: %w", err)
		}
		t.Logo = util.EncodeDataURI(util.SniffImageMime(data), data)
	}
	return t, t.Validate()
}

// ParseHCL 解析主题源码，返回主题和未加载的logo路径
func ParseHCL(src []byte, filename string) (Theme, string, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return Theme{}, "", fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &raw); diags.HasErrors() {
		return Theme{}, "", fmt.Errorf("decoding theme: %s", diags.Error())
	}

	t := Theme{
		Name:        raw.Name,
		DisplayName: raw.DisplayName,
		Description: raw.Description,
	}
	if raw.Colors != nil {
		t.Colors = Colors(*raw.Colors)
	}
	if raw.Fonts != nil {
		t.Fonts = Fonts(*raw.Fonts)
	}
	return t, raw.Logo, nil
}

// evalContext 暴露内置主题颜色和 mix 函数
func evalContext() *hcl.EvalContext {
	builtin := make(map[string]cty.Value, len(builtins))
	for _, t := range builtins {
		builtin[t.Name] = cty.ObjectVal(map[string]cty.Value{
			"primary":    cty.StringVal(t.Colors.Primary),
			"secondary":  cty.StringVal(t.Colors.Secondary),
			"background": cty.StringVal(t.Colors.Background),
			"text":       cty.StringVal(t.Colors.Text),
			"accent":     cty.StringVal(t.Colors.Accent),
			"muted":      cty.StringVal(t.Colors.Muted),
		})
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"builtin": cty.ObjectVal(builtin),
		},
		Functions: map[string]function.Function{
			"mix": makeMixFunc(),
		},
	}
}

func makeMixFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Blends two colors, weight 0 returns the first and 1 the second",
		Params: []function.Parameter{
			{Name: "a", Type: cty.String},
			{Name: "b", Type: cty.String},
			{Name: "weight", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			a, b := args[0].AsString(), args[1].AsString()
			if _, err := ParseColor(a); err != nil {
				return cty.NilVal, err
			}
			if _, err := ParseColor(b); err != nil {
				return cty.NilVal, err
			}
			w, _ := args[2].AsBigFloat().Float64()
			return cty.StringVal(Blend(a, b, w)), nil
		},
	})
}
