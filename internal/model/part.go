package model

import "time"

// Part represents one inventory line for an auto part.
type Part struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand,omitempty"`
	Model      string    `json:"model,omitempty"`
	Category   string    `json:"category,omitempty"`
	Fuel       string    `json:"fuel,omitempty"`
	Engine     string    `json:"engine,omitempty"`
	PartNumber string    `json:"part_number,omitempty"`
	Quantity   int       `json:"quantity"`
	Price      *float64  `json:"price,omitempty"`
	Note       string    `json:"note,omitempty"`
	Location   string    `json:"location,omitempty"`
	Images     []string  `json:"images"`
	CreatedAt  time.Time `json:"created_at"`
}

// MaxImages is the maximum number of image references a part may carry.
const MaxImages = 5
