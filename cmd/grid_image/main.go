package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/court_booking/internal/controller/gridimage"
	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
)

func main() {
	date := time.Now().Format(model.DateLayout)
	if len(os.Args) > 1 {
		date = os.Args[1]
	}

	// Тестовые брони
	reservations := []*model.Reservation{
		{ID: 1, UserID: 1, CourtNumber: 1, Date: date, StartTime: model.ClockAt(9, 0), EndTime: model.ClockAt(10, 30), UserFullName: "Anna Ivanova"},
		{ID: 2, UserID: 2, CourtNumber: 1, Date: date, StartTime: model.ClockAt(18, 0), EndTime: model.ClockAt(20, 0), UserFullName: "Boris Petrov"},
		{ID: 3, UserID: 1, CourtNumber: 2, Date: date, StartTime: model.ClockAt(12, 0), EndTime: model.ClockAt(13, 0), UserFullName: "Anna Ivanova"},
		{ID: 4, UserID: 3, CourtNumber: 3, Date: date, StartTime: model.ClockAt(8, 0), EndTime: model.ClockAt(22, 0), Username: "tournament"},
	}

	// Смотрим глазами участника 1
	grid := scheduler.BuildGrid(scheduler.DefaultConfig(), date, 1, reservations)

	imageData, err := gridimage.GenerateDayImage(grid)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "day.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s\n", filename)
	fmt.Printf("📅 Дата: %s\n", date)
	fmt.Printf("📊 Броней: %d\n", len(reservations))
}
