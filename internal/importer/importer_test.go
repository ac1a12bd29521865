package importer

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/slides"
)

func slideXML(texts ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree>`)
	for _, t := range texts {
		b.WriteString(`<p:sp><p:txBody><a:p><a:r><a:rPr lang="en-US"/><a:t>`)
		b.WriteString(t)
		b.WriteString(`</a:t></a:r></a:p></p:txBody></p:sp>`)
	}
	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func buildPPTX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func titlesOf(r *Result) []string {
	out := make([]string, len(r.Slides))
	for i, s := range r.Slides {
		out[i] = s.Title
	}
	return out
}

func TestImportNumericOrder(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide10.xml":            slideXML("Ten"),
		"ppt/slides/slide2.xml":             slideXML("Two"),
		"ppt/slides/slide1.xml":             slideXML("One"),
		"ppt/slides/_rels/slide1.xml.rels":  "<Relationships/>",
		"ppt/slideLayouts/slideLayout1.xml": slideXML("Layout"),
	})

	r, err := ImportBytes("deck.pptx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two", "Ten"}, titlesOf(r))
	assert.Equal(t, "One", r.Title)
}

func TestImportClassification(t *testing.T) {
	long := strings.Repeat("x", 60)
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML("Deck", "a", "b", "c"),
		"ppt/slides/slide2.xml": slideXML("Break"),
		"ppt/slides/slide3.xml": slideXML("Heading", "sub"),
		"ppt/slides/slide4.xml": slideXML("Agenda", "one", "two"),
		"ppt/slides/slide5.xml": slideXML(long),
		"ppt/slides/slide6.xml": slideXML(),
	})

	r, err := ImportBytes("deck.pptx", data)
	require.NoError(t, err)
	require.Len(t, r.Slides, 6)

	want := []slides.Layout{
		slides.LayoutTitle,
		slides.LayoutSection,
		slides.LayoutTitle,
		slides.LayoutTitleBullets,
		slides.LayoutTitleBullets,
		slides.LayoutSection,
	}
	for i, s := range r.Slides {
		assert.Equal(t, want[i], s.Layout, "slide %d", i+1)
		assert.NotEmpty(t, s.ID)
	}

	assert.Len(t, r.Slides[0].Elements, 3)
	require.Len(t, r.Slides[3].Elements, 2)
	assert.Equal(t, slides.SlideElement{Type: slides.ElementBullet, Content: "one"}, r.Slides[3].Elements[0])
	assert.Equal(t, "Slide 6", r.Slides[5].Title)
	assert.Empty(t, r.Slides[5].Elements)
}

func TestImportTextRuns(t *testing.T) {
	xml := `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:txBody><a:p><a:r><a:t xml:space="preserve">  R&amp;D  </a:t></a:r>` +
		`<a:r><a:t>   </a:t></a:r><a:r><a:t>Second</a:t></a:r></a:p></p:txBody>` +
		`<p:extLst><t>not drawing text</t></p:extLst></p:sld>`
	data := buildPPTX(t, map[string]string{"ppt/slides/slide1.xml": xml})

	r, err := ImportBytes("x.pptx", data)
	require.NoError(t, err)
	require.Len(t, r.Slides, 1)
	assert.Equal(t, "R&D", r.Slides[0].Title)
	require.Len(t, r.Slides[0].Elements, 1)
	assert.Equal(t, "Second", r.Slides[0].Elements[0].Content)
}

func TestImportTitleFallsBackToFileName(t *testing.T) {
	data := buildPPTX(t, map[string]string{"ppt/slides/slide1.xml": slideXML()})
	r, err := ImportBytes("Quarterly Review.PPTX", data)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Review", r.Title)
	assert.Equal(t, "Slide 1", r.Slides[0].Title)
	assert.Equal(t, slides.LayoutTitle, r.Slides[0].Layout)
}

func TestImportErrors(t *testing.T) {
	var importErr *constant.ImportError

	_, err := ImportBytes("notes.docx", []byte("whatever"))
	require.ErrorAs(t, err, &importErr)
	assert.True(t, errors.Is(err, ErrNotPPTX))

	_, err = ImportBytes("broken.pptx", []byte("not a zip"))
	require.ErrorAs(t, err, &importErr)

	data := buildPPTX(t, map[string]string{"ppt/presentation.xml": "<p:presentation/>"})
	_, err = ImportBytes("empty.pptx", data)
	require.ErrorAs(t, err, &importErr)
	assert.True(t, errors.Is(err, ErrNoSlides))

	data = buildPPTX(t, map[string]string{"ppt/slides/slide1.xml": "<p:sld><a:t>unclosed"})
	_, err = ImportBytes("bad.pptx", data)
	require.ErrorAs(t, err, &importErr)

	assert.Equal(t, 400, constant.GetErrorCode(err))
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")
	require.NoError(t, os.WriteFile(path, buildPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML("From disk", "subtitle"),
	}), 0o644))

	r, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, "From disk", r.Title)

	_, err = ImportFile(filepath.Join(dir, "missing.pptx"))
	var importErr *constant.ImportError
	assert.ErrorAs(t, err, &importErr)
}
