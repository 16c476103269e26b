package models

import "time"

// Room is a bookable teaching space.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Batch is a cohort of students that moves through the timetable together.
type Batch struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Strength  int       `db:"strength" json:"strength"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
