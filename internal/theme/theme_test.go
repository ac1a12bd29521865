package theme

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/ppt_tools/internal/constant"
)

func TestListOrder(t *testing.T) {
	var names []string
	for _, th := range List() {
		names = append(names, th.Name)
	}
	assert.Equal(t, []string{"corporate", "minimal", "creative", "nature", "tech", "academic"}, names)
}

func TestListReturnsCopy(t *testing.T) {
	l := List()
	l[0].Name = "changed"
	assert.Equal(t, "corporate", List()[0].Name)
}

func TestResolveIsTotal(t *testing.T) {
	for _, name := range []string{"", "corporate", "tech", "unknown", "CORPORATE", "custom-123", "\x00"} {
		th := Resolve(name)
		assert.NoError(t, th.Validate(), name)
		for _, c := range []string{th.Colors.Primary, th.Colors.Secondary, th.Colors.Background, th.Colors.Text, th.Colors.Accent, th.Colors.Muted} {
			assert.NotEmpty(t, c)
		}
		assert.NotEmpty(t, th.Fonts.Heading)
		assert.NotEmpty(t, th.Fonts.Body)
	}
	assert.Equal(t, "corporate", Resolve("nope").Name)
	assert.Equal(t, "tech", Resolve("tech").Name)
}

func TestBuiltinValues(t *testing.T) {
	academic, ok := Get("academic")
	require.True(t, ok)
	assert.Equal(t, "#7c2d12", academic.Colors.Primary)
	assert.Equal(t, "Times New Roman", academic.Fonts.Heading)

	tech, ok := Get("tech")
	require.True(t, ok)
	assert.Equal(t, "#0f172a", tech.Colors.Background)
	assert.True(t, IsDark(tech.Colors.Background))
}

func TestValidateListsEveryMissingKey(t *testing.T) {
	th := Theme{Name: "x", Colors: Colors{Primary: "#fff", Secondary: "nothex"}}
	err := th.Validate()
	require.Error(t, err)

	var ve *constant.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]bool{}
	for _, d := range ve.Details {
		fields[d.Field] = true
	}
	for _, f := range []string{"displayName", "description", "colors.secondary", "colors.background", "colors.text", "colors.accent", "colors.muted", "fonts.heading", "fonts.body"} {
		assert.True(t, fields[f], f)
	}
	assert.False(t, fields["colors.primary"])
	assert.False(t, fields["name"])
}

func TestHexBare(t *testing.T) {
	assert.Equal(t, "1E3A5F", HexBare("#1e3a5f", "000000"))
	assert.Equal(t, "1E3A5F", HexBare("1e3a5f", "000000"))
	assert.Equal(t, "FFFFFF", HexBare("#fff", "000000"))
	assert.Equal(t, "3B82F6", HexBare("garbage", "#3b82f6"))
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, "#ffffff", ContrastText("#1e3a5f"))
	assert.Equal(t, "#1a1a1a", ContrastText("#ffffff"))
}

func TestHeadingUppercase(t *testing.T) {
	th := Default()
	assert.Equal(t, "Hello", th.Heading("Hello"))
	th.Fonts.HeadingUppercase = true
	assert.Equal(t, "HELLO", th.Heading("Hello"))
}

func logoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			switch {
			case x < 30 && y < 30:
				img.Set(x, y, color.NRGBA{R: 0xff, A: 0xff})
			case x > 70 && y < 30:
				img.Set(x, y, color.NRGBA{B: 0xff, A: 0xff})
			default:
				img.Set(x, y, color.NRGBA{G: 0xff, A: 0xff})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractLogoPalette(t *testing.T) {
	p, err := ExtractLogoPalette(logoPNG(t))
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", p.Primary)
	assert.Equal(t, "#00ff00", p.Secondary)
	assert.Equal(t, "#0000ff", p.Accent)
}

func TestExtractLogoPaletteTransparentFallsBack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	p, err := ExtractLogoPalette(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Default().Colors.Primary, p.Primary)
}

func TestFromLogo(t *testing.T) {
	th, err := FromLogo("Acme", logoPNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(th.Name, "custom-"))
	assert.Equal(t, "Acme", th.DisplayName)
	assert.Equal(t, "#ff0000", th.Colors.Primary)
	assert.Equal(t, "#ffffff", th.Colors.Background)
	assert.True(t, strings.HasPrefix(th.Logo, "data:image/png;base64,"))

	_, err = FromLogo("Acme", []byte("not an image"))
	var ve *constant.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = FromLogo(" ", logoPNG(t))
	assert.True(t, errors.As(err, &ve))
}

func TestCustomName(t *testing.T) {
	assert.Equal(t, "custom-1700000000000", CustomName(time.UnixMilli(1700000000000)))
}

const brandHCL = `
name         = "acme"
display_name = "Acme"
description  = "Acme brand"

colors {
  primary    = "#112233"
  secondary  = mix(builtin.corporate.primary, "#ffffff", 0)
  background = "#ffffff"
  text       = builtin.minimal.text
  accent     = "#ff8800"
  muted      = "#999999"
}

fonts {
  heading           = "Georgia"
  body              = "Arial"
  heading_uppercase = true
}
`

func TestParseHCL(t *testing.T) {
	th, logo, err := ParseHCL([]byte(brandHCL), "brand.hcl")
	require.NoError(t, err)
	assert.Empty(t, logo)
	assert.Equal(t, "acme", th.Name)
	assert.Equal(t, "#1e3a5f", th.Colors.Secondary)
	assert.Equal(t, "#111827", th.Colors.Text)
	assert.True(t, th.Fonts.HeadingUppercase)
	assert.NoError(t, th.Validate())
}

func TestLoadHCLWithLogo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), logoPNG(t), 0o644))
	src := brandHCL + "\nlogo = \"logo.png\"\n"
	path := filepath.Join(dir, "brand.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	th, err := LoadHCL(path)
	require.NoError(t, err)
	assert.True(t, th.HasLogo())
}

func TestLoadHCLIncomplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brand.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`name = "x"`), 0o644))

	_, err := LoadHCL(path)
	var ve *constant.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestParseHCLSyntaxError(t *testing.T) {
	_, _, err := ParseHCL([]byte(`colors {`), "bad.hcl")
	assert.Error(t, err)
}
