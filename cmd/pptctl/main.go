package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yockii/ppt_tools/internal/assembler"
	"github.com/yockii/ppt_tools/internal/generator"
	"github.com/yockii/ppt_tools/internal/importer"
	"github.com/yockii/ppt_tools/internal/llm"
	"github.com/yockii/ppt_tools/internal/outline"
	"github.com/yockii/ppt_tools/internal/render"
	"github.com/yockii/ppt_tools/internal/server"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/theme"
	"github.com/yockii/ppt_tools/internal/validate"
	"github.com/yockii/ppt_tools/pkg/config"
	"github.com/yockii/ppt_tools/pkg/util"
)

var version = "dev" // 构建时通过 ldflags 注入

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "pptctl",
		Short:         "Generate, render and import slide decks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "conf/config.yaml", "config file path")

	root.AddCommand(
		newRenderCmd(),
		newImportCmd(),
		newGenerateCmd(),
		newThemesCmd(),
		newThemeCmd(),
		newServeCmd(&configFile),
	)
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		out       string
		themeName string
		themeFile string
		style     string
		engine    string
		dump      string
	)
	cmd := &cobra.Command{
		Use:   "render <outline.md|deck.json>",
		Short: "Render an outline or a presentation JSON file to .pptx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := loadDeck(cmd, args[0])
			if err != nil {
				return err
			}
			if themeName != "" {
				deck.Theme = themeName
			}
			if themeFile != "" {
				custom, err := theme.LoadHCL(themeFile)
				if err != nil {
					return fmt.Errorf("loading theme: %w", err)
				}
				deck.CustomTheme = &custom
			}

			opts := assembler.DefaultOptions()
			if style != "" {
				opts.Style = render.ParseStyle(style)
			}
			if engine != "" {
				opts.Engine = assembler.ParseEngine(engine)
			}
			opts.DumpPath = dump
			doc, err := assembler.Assemble(deck, opts)
			if err != nil {
				return err
			}

			if out == "" {
				out = doc.Filename
			}
			if err := util.SaveFile(out, doc.Bytes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d slides to %s\n", doc.SlideCount, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: derived from the title)")
	cmd.Flags().StringVar(&themeName, "theme", "", "built-in theme name")
	cmd.Flags().StringVar(&themeFile, "theme-file", "", "custom theme HCL file")
	cmd.Flags().StringVar(&style, "style", "", "render style: decorated or flat")
	cmd.Flags().StringVar(&engine, "engine", "", "document writer: ooxml or goppt")
	cmd.Flags().StringVar(&dump, "dump", "", "write the element structure of every slide as JSON")
	return cmd
}

// loadDeck .json 按演示文稿解析，其他文件按大纲文本解析
func loadDeck(cmd *cobra.Command, path string) (*slides.Presentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		deck := new(slides.Presentation)
		if err := json.Unmarshal(data, deck); err != nil {
			return nil, fmt.Errorf("invalid presentation JSON: %w", err)
		}
		if err := validate.Struct("Invalid presentation data", deck); err != nil {
			return nil, err
		}
		if deck.CustomTheme != nil {
			if err := deck.CustomTheme.Validate(); err != nil {
				return nil, err
			}
		}
		return deck, nil
	}

	text := string(data)
	for _, issue := range outline.Validate(text) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue)
	}
	deck := &slides.Presentation{
		ID:     slides.NewSlideID(),
		Title:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Slides: outline.Parse(text),
	}
	if len(deck.Slides) > 0 && deck.Slides[0].Layout == slides.LayoutTitle && deck.Slides[0].Title != "" {
		deck.Title = deck.Slides[0].Title
	}
	return deck, nil
}

func newImportCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "import <deck.pptx>",
		Short: "Extract slide text from a .pptx file as an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := importer.ImportFile(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprint(cmd.OutOrStdout(), outline.Serialize(result.Slides))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print title and slides as JSON")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		req    generator.Request
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate a slide outline with the AI model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Topic = args[0]
			gen := generator.New(llm.NewAnthropicChatModel(llm.ConfigFromEnv()))
			stream, err := gen.Stream(cmd.Context(), req)
			if err != nil {
				return err
			}
			defer stream.Close()

			// 生成过程输出到 stderr，结果输出到 stdout
			for chunk, err := range stream.Chunks() {
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.ErrOrStderr(), chunk)
			}
			fmt.Fprintln(cmd.ErrOrStderr())

			result, err := stream.Result()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result.Presentation(theme.DefaultName))
			}
			fmt.Fprint(cmd.OutOrStdout(), outline.Serialize(result.Slides))
			return nil
		},
	}
	cmd.Flags().IntVarP(&req.SlideCount, "slides", "n", generator.DefaultSlideCount, "number of slides (3-20)")
	cmd.Flags().StringVar((*string)(&req.Style), "style", string(generator.StyleFormal), "formal, casual or creative")
	cmd.Flags().StringVar(&req.Language, "language", generator.DefaultLanguage, "content language code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the presentation as JSON")
	return cmd
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISPLAY NAME\tPRIMARY\tFONTS")
			for _, t := range theme.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s / %s\n", t.Name, t.DisplayName, t.Colors.Primary, t.Fonts.Heading, t.Fonts.Body)
			}
			return w.Flush()
		},
	}
}

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Custom theme tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <brand.hcl>",
		Short: "Validate a custom theme HCL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := theme.LoadHCL(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", args[0], t.Name)
			return nil
		},
	})
	return cmd
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(*configFile)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
