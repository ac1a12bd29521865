package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/slides"
)

type item struct {
	Name string `json:"name" validate:"required"`
}

type payload struct {
	Topic string `json:"topic" validate:"required,max=5"`
	Count int    `json:"count" validate:"min=3"`
	Mode  string `json:"mode" validate:"oneof=a b"`
	Items []item `json:"items" validate:"dive"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct("Invalid request", &payload{Topic: "x", Count: 3, Mode: "a"}))

	err := Struct("Invalid request", &payload{Topic: "toolong", Count: 1, Mode: "c", Items: []item{{}}})
	var verr *constant.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid request", verr.Message)
	assert.Equal(t, []constant.FieldError{
		{Field: "topic", Message: "must be at most 5"},
		{Field: "count", Message: "must be at least 3"},
		{Field: "mode", Message: "must be one of [a b]"},
		{Field: "items[0].name", Message: "is required"},
	}, verr.Details)
	assert.Equal(t, 400, constant.GetErrorCode(err))
}

func TestPresentationRules(t *testing.T) {
	ok := &slides.Presentation{
		Theme: "tech",
		Slides: []slides.Slide{
			{Layout: slides.LayoutTable, Elements: []slides.SlideElement{{Type: slides.ElementText, Content: "a|b"}}},
		},
	}
	assert.NoError(t, Struct("Invalid presentation data", ok))

	bad := &slides.Presentation{
		Theme: "neon",
		Slides: []slides.Slide{
			{Layout: "mosaic", Elements: []slides.SlideElement{{Type: "video", Content: "x"}}},
		},
	}
	err := Struct("Invalid presentation data", bad)
	var verr *constant.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := map[string]string{}
	for _, d := range verr.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "must be a built-in theme", fields["theme"])
	assert.Contains(t, fields["slides[0].layout"], "two-columns")
	assert.Equal(t, "must be one of [text bullet image icon quote]", fields["slides[0].elements[0].type"])
}
