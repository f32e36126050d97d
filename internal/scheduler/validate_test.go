package scheduler

import (
	"errors"
	"testing"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("valid request", func(t *testing.T) {
		cand, err := cfg.ParseRequest(BookingRequest{CourtNumber: 2, Date: "2024-06-01", StartTime: "9:00", EndTime: "10:30"})
		require.NoError(t, err)
		assert.Equal(t, 2, cand.Court)
		assert.Equal(t, "2024-06-01", cand.Date)
		assert.Equal(t, "09:00-10:30", cand.Interval.String())
	})

	tests := []struct {
		name     string
		req      BookingRequest
		kind     error
		alsoKind []error
		messages int
	}{
		{
			name:     "inverted interval",
			req:      BookingRequest{CourtNumber: 1, Date: "2024-06-01", StartTime: "14:00", EndTime: "13:00"},
			kind:     ErrInvalidInterval,
			messages: 1,
		},
		{
			name:     "empty interval",
			req:      BookingRequest{CourtNumber: 1, Date: "2024-06-01", StartTime: "14:00", EndTime: "14:00"},
			kind:     ErrInvalidInterval,
			messages: 1,
		},
		{
			name:     "invalid court",
			req:      BookingRequest{CourtNumber: 4, Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00"},
			kind:     ErrInvalidCourt,
			messages: 1,
		},
		{
			name:     "invalid court with inverted interval",
			req:      BookingRequest{CourtNumber: 4, Date: "2024-06-01", StartTime: "14:00", EndTime: "13:00"},
			kind:     ErrInvalidInterval,
			alsoKind: []error{ErrInvalidCourt},
			messages: 2,
		},
		{
			name:     "bad date",
			req:      BookingRequest{CourtNumber: 1, Date: "01/06/2024", StartTime: "10:00", EndTime: "11:00"},
			kind:     ErrInvalidFormat,
			messages: 1,
		},
		{
			name:     "bad time with invalid court",
			req:      BookingRequest{CourtNumber: 0, Date: "2024-06-01", StartTime: "ten", EndTime: "11:00"},
			kind:     ErrInvalidFormat,
			alsoKind: []error{ErrInvalidCourt},
			messages: 2,
		},
		{
			name:     "hour out of range",
			req:      BookingRequest{CourtNumber: 1, Date: "2024-06-01", StartTime: "23:00", EndTime: "24:00"},
			kind:     ErrInvalidFormat,
			messages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfg.ParseRequest(tt.req)
			require.Error(t, err)

			var be *BookingError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.kind, be.Kind())
			assert.Len(t, be.Messages(), tt.messages)
			assert.ErrorIs(t, err, tt.kind)
			for _, k := range tt.alsoKind {
				assert.ErrorIs(t, err, k)
			}
		})
	}
}

func TestCandidateCheckConflict(t *testing.T) {
	cfg := DefaultConfig()
	existing := res(t, 1, 1, "2024-06-01", "10:00", "11:00")

	// Сценарий A
	overlapping, err := cfg.ParseRequest(BookingRequest{CourtNumber: 1, Date: "2024-06-01", StartTime: "10:30", EndTime: "11:30"})
	require.NoError(t, err)
	assert.Error(t, overlapping.CheckConflict([]*model.Reservation{existing}))

	adjacent, err := cfg.ParseRequest(BookingRequest{CourtNumber: 1, Date: "2024-06-01", StartTime: "11:00", EndTime: "12:00"})
	require.NoError(t, err)
	assert.NoError(t, adjacent.CheckConflict([]*model.Reservation{existing}))

	be := overlapping.SlotUnavailable()
	assert.ErrorIs(t, be, ErrSlotUnavailable)
	assert.Equal(t, []string{"this slot is already booked for court 1"}, be.Messages())
	assert.Equal(t, 1, be.Violations[0].Court)
}

func TestParseRequestCourtMessage(t *testing.T) {
	cfg := DefaultConfig()

	_, err := cfg.ParseRequest(BookingRequest{CourtNumber: 7, Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00"})
	var be *BookingError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, []string{"invalid court number 7"}, be.Messages())
	assert.Equal(t, 7, be.Violations[0].Court)

	// номер корта не разобрался
	_, err = cfg.ParseRequest(BookingRequest{Date: "2024-06-01", StartTime: "10:00", EndTime: "11:00"})
	require.ErrorAs(t, err, &be)
	assert.Equal(t, []string{"invalid court number"}, be.Messages())
}
