package shortener

import "time"

// Slug is the short identifier a ShortLink is addressed by.
type Slug string

// ShortLink maps a slug to the long URL it redirects to.
// A ShortLink is written once and never modified.
type ShortLink struct {
	Slug      Slug
	LongURL   string
	CreatedAt time.Time
}
