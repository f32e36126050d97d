// Package gridimage рисует сетку занятости кортов за день в PNG.
package gridimage

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	headerHeight     = 60
	leftLabelsWidth  = 110
	courtWidth       = 220
	legendWidth      = 170
	slotHeight       = 40
	courtPaddingX    = 8
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	footerHeight     = 20
	maxNameLen       = 24
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 220}
	hourLabelColor  = color.RGBA{110, 115, 120, 200}
	hourLineColor   = color.NRGBA{150, 150, 150, 255}
	evenCourtColor  = color.NRGBA{240, 240, 240, 255}
	oddCourtColor   = color.NRGBA{220, 220, 220, 255}
	slotShadowColor = color.RGBA{0, 0, 0, 20}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotMineColor       = color.RGBA{120, 170, 230, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// GenerateDayImage колонки по кортам, строки по слотам дня
func GenerateDayImage(grid *scheduler.Grid) ([]byte, error) {
	if grid == nil || len(grid.Courts) == 0 {
		return nil, fmt.Errorf("empty grid")
	}

	rows := len(grid.Courts[0].Slots)
	width := leftLabelsWidth + len(grid.Courts)*courtWidth + legendWidth
	height := headerHeight + rows*slotHeight + footerHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawHeader(dc, grid.Date, width)
	drawSlotLabels(dc, grid.Courts[0].Slots)
	for i, court := range grid.Courts {
		drawCourt(dc, i, court, rows)
	}
	drawLegend(dc, float64(leftLabelsWidth+len(grid.Courts)*courtWidth+15))

	return encodeImage(dc)
}

func drawHeader(dc *gg.Context, date string, width int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored("Court availability "+date, float64(width)/2, float64(headerHeight)/3, 0.5, 0.5)
}

// drawSlotLabels колонка с временем слотов слева
func drawSlotLabels(dc *gg.Context, slots []scheduler.SlotStatus) {
	dc.SetColor(hourLabelColor)
	for i, s := range slots {
		y := float64(headerHeight + i*slotHeight + slotHeight/2)
		dc.DrawStringAnchored(s.Slot.String(), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawCourt(dc *gg.Context, index int, court scheduler.CourtAvailability, rows int) {
	x := float64(leftLabelsWidth + index*courtWidth)
	y := float64(headerHeight)

	if index%2 == 0 {
		dc.SetColor(evenCourtColor)
	} else {
		dc.SetColor(oddCourtColor)
	}
	dc.DrawRectangle(x, y, courtWidth, float64(rows*slotHeight))
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(fmt.Sprintf("Court %d", court.Court), x+courtWidth/2, y-12, 0.5, 0.5)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for r := 0; r <= rows; r++ {
		ly := y + float64(r*slotHeight)
		dc.DrawLine(x, ly, x+courtWidth, ly)
		dc.Stroke()
	}

	for r, s := range court.Slots {
		drawSlot(dc, s, x, y+float64(r*slotHeight))
	}
}

func drawSlot(dc *gg.Context, s scheduler.SlotStatus, x, y float64) {
	fill := slotColor(s)
	w := float64(courtWidth - courtPaddingX*2)
	h := float64(slotHeight - 4)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+courtPaddingX+shadowOffset, y+2+shadowOffset, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+courtPaddingX, y+2, w, h, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+courtPaddingX, y+2, w, h, slotBorderRadius)
	dc.Stroke()

	label := "free"
	txtColor := slotTextColor
	if s.Reserved {
		txtColor = slotBookedTextColor
		label = "booked"
		if s.Reservation != nil {
			label = truncate(s.Reservation.UserFullName)
			if label == "" {
				label = truncate(s.Reservation.Username)
			}
		}
	}
	dc.SetColor(txtColor)
	dc.DrawStringAnchored(label, x+courtPaddingX+10, y+float64(slotHeight)/2, 0, 0.5)
}

func slotColor(s scheduler.SlotStatus) color.RGBA {
	switch {
	case !s.Reserved:
		return slotFreeColor
	case s.Reservation != nil && s.Reservation.IsCurrentUser:
		return slotMineColor
	default:
		return slotBookedColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, x float64) {
	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Free", slotFreeColor},
		{"Booked", slotBookedColor},
		{"Your booking", slotMineColor},
	}

	boxW, boxH := 20.0, 14.0
	y := float64(headerHeight) + 10
	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, x+boxW+8, y+boxH/2, 0, 0.5)
		y += boxH + 14
	}
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxNameLen {
		return string(r[:maxNameLen-3]) + "..."
	}
	return s
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
