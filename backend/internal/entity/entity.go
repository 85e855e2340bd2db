// Package entity defines the normalized records held by the store and
// the denormalized view shapes assembled by the resolver.
package entity

// User is a registered account. Followers and Following hold user ids;
// the two lists are authored independently (a follow writes only the
// target's Followers, see service.Follow).
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"-"`
	Pronoun   string   `json:"pronoun,omitempty"`
	Joined    string   `json:"joined"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// Post references its author and topic by id only
type Post struct {
	ID         string `json:"id"`
	Caption    string `json:"caption"`
	PostedByID string `json:"postedByID"`
	TopicID    string `json:"topicID"`
	DatePosted string `json:"datePosted"`
}

// Comment references its author and post by id only
type Comment struct {
	ID            string `json:"id"`
	Comment       string `json:"comment"`
	CommentedByID string `json:"commentedByID"`
	PostID        string `json:"postID"`
}

// Topic groups posts
type Topic struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}
