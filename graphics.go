package main

import (
	"bytes"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source shared by the renderer and placeholder generation
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawCenteredText draws text centered on cx
func DrawCenteredText(screen *ebiten.Image, textString string, font *text.GoTextFace, cx, y float64, textColor color.RGBA) {
	w, _ := text.Measure(textString, font, 0)
	DrawText(screen, textString, font, cx-w/2, y, textColor)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawRectOutline strokes a rectangle
func DrawRectOutline(screen *ebiten.Image, r Rect, width float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), float32(width), c, false)
}

// DrawLine strokes a line segment
func DrawLine(screen *ebiten.Image, from, to Point, width float64, c color.RGBA) {
	vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(width), c, true)
}

// DrawDot draws a filled circle
func DrawDot(screen *ebiten.Image, center Point, radius float64, c color.RGBA) {
	vector.DrawFilledCircle(screen, float32(center.X), float32(center.Y), float32(radius), c, true)
}

func drawBorder(img *ebiten.Image, width, height int, c color.RGBA) {
	w, h := float64(width), float64(height)
	DrawFilledRect(img, 0, 0, w, 3, c)
	DrawFilledRect(img, 0, h-3, w, 3, c)
	DrawFilledRect(img, 0, 0, 3, h, c)
	DrawFilledRect(img, w-3, 0, 3, h, c)
}

// CreateErrorImage creates a placeholder shown in place of an image that
// could not be loaded, naming the source and the reason
func CreateErrorImage(width, height int, source, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	white := color.RGBA{255, 255, 255, 255}
	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(color.RGBA{60, 60, 70, 255})
	drawBorder(errorImg, width, height, white)

	// Without a font source only the frame is drawn
	if globalFontSource == nil {
		return errorImg
	}

	errorFont := &text.GoTextFace{
		Source: globalFontSource,
		Size:   20.0,
	}

	sourceText := "Source: " + filepath.Base(source)
	reasonText := "Reason: " + errorMsg

	// Truncate long text to fit within image bounds
	maxChars := (width - 20) / 10 // Rough estimate: 10px per character
	if len(sourceText) > maxChars {
		sourceText = sourceText[:maxChars-3] + "..."
	}
	if len(reasonText) > maxChars {
		reasonText = reasonText[:maxChars-3] + "..."
	}

	DrawText(errorImg, "IMAGE UNAVAILABLE", errorFont, 10, 30, white)
	DrawText(errorImg, sourceText, errorFont, 10, 60, white)
	DrawText(errorImg, reasonText, errorFont, 10, 90, white)

	return errorImg
}
