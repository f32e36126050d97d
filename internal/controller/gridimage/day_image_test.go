package gridimage

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDayImage(t *testing.T) {
	cfg := scheduler.DefaultConfig()
	res := &model.Reservation{
		ID:           1,
		UserID:       7,
		CourtNumber:  2,
		Date:         "2024-06-01",
		StartTime:    model.ClockAt(10, 0),
		EndTime:      model.ClockAt(12, 0),
		UserFullName: "A very long member name that will not fit",
	}
	grid := scheduler.BuildGrid(cfg, "2024-06-01", 7, []*model.Reservation{res})

	data, err := GenerateDayImage(grid)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, leftLabelsWidth+3*courtWidth+legendWidth, b.Dx())
	assert.Equal(t, headerHeight+14*slotHeight+footerHeight, b.Dy())
}

func TestGenerateDayImageEmpty(t *testing.T) {
	_, err := GenerateDayImage(nil)
	assert.Error(t, err)

	_, err = GenerateDayImage(&scheduler.Grid{Date: "2024-06-01"})
	assert.Error(t, err)
}

func TestSlotColor(t *testing.T) {
	assert.Equal(t, slotFreeColor, slotColor(scheduler.SlotStatus{}))
	assert.Equal(t, slotBookedColor, slotColor(scheduler.SlotStatus{Reserved: true, Reservation: &scheduler.ReservationInfo{}}))
	assert.Equal(t, slotMineColor, slotColor(scheduler.SlotStatus{Reserved: true, Reservation: &scheduler.ReservationInfo{IsCurrentUser: true}}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	assert.Len(t, []rune(truncate("Ekaterina Konstantinovna Rozhdestvenskaya")), maxNameLen)
}
