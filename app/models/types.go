package models

import "time"

// User is an account that can authenticate against the API. Users are
// seeded from the CLI; the API itself never creates or mutates them.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username" validate:"required,min=1,max=50"`
	PasswordHash string    `json:"password_hash"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Post is a blog post as stored. Tag names live in link records, not in
// the post row itself; repositories fill Tags in when reading.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content_md"`
	Excerpt   string    `json:"excerpt"`
	Published bool      `json:"is_published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []string  `json:"-"`
}

// Tag is a label attached to posts. A tag is created the first time a
// post references its name and is never deleted.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TagCount pairs a tag name with the number of posts linked to it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
