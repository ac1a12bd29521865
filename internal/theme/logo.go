package theme

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/pkg/util"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// 从logo取色的三个采样点（相对宽高）
var logoSamplePoints = [3][2]float64{
	{0.1, 0.1},
	{0.5, 0.5},
	{0.9, 0.1},
}

// LogoPalette 从logo中提取的颜色建议
type LogoPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// ExtractLogoPalette 在三个固定位置采样，透明像素沿用默认主题的颜色
func ExtractLogoPalette(data []byte) (LogoPalette, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return LogoPalette{}, constant.NewValidationError("Invalid logo image",
			constant.FieldError{Field: "logo", Message: err.Error()})
	}
	def := Default().Colors
	fallbacks := [3]string{def.Primary, def.Secondary, def.Accent}

	b := img.Bounds()
	var sampled [3]string
	for i, p := range logoSamplePoints {
		x := b.Min.X + int(float64(b.Dx())*p[0])
		y := b.Min.Y + int(float64(b.Dy())*p[1])
		c, ok := colorful.MakeColor(img.At(x, y))
		if !ok {
			sampled[i] = fallbacks[i]
			continue
		}
		sampled[i] = c.Clamped().Hex()
	}
	return LogoPalette{Primary: sampled[0], Secondary: sampled[1], Accent: sampled[2]}, nil
}

// FromLogo 根据logo生成自定义主题，未参与取色的颜色和字体使用默认值
func FromLogo(displayName string, logo []byte) (Theme, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return Theme{}, constant.NewValidationError("Invalid custom theme",
			constant.FieldError{Field: "displayName", Message: "is required"})
	}
	palette, err := ExtractLogoPalette(logo)
	if err != nil {
		return Theme{}, err
	}
	mime := util.SniffImageMime(logo)
	if util.ImageExt(mime) == "" {
		return Theme{}, constant.NewValidationError("Invalid logo image",
			constant.FieldError{Field: "logo", Message: fmt.Sprintf("unsupported image type %s", mime)})
	}

	def := Default()
	t := Theme{
		Name:        CustomName(time.Now()),
		DisplayName: displayName,
		Description: "Custom theme",
		Colors: Colors{
			Primary:    palette.Primary,
			Secondary:  palette.Secondary,
			Background: def.Colors.Background,
			Text:       def.Colors.Text,
			Accent:     palette.Accent,
			Muted:      def.Colors.Muted,
		},
		Fonts: def.Fonts,
		Logo:  util.EncodeDataURI(mime, logo),
	}
	return t, t.Validate()
}

// CustomName 自定义主题名称 custom-<毫秒时间戳>
func CustomName(now time.Time) string {
	return "custom-" + strconv.FormatInt(now.UnixMilli(), 10)
}
