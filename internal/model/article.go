package model

import "time"

// Article новость клуба
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImagePath string    `json:"image_path,omitempty"` // URL или путь картинки, без загрузки файлов
	CreatedAt time.Time `json:"created_at"`
}
