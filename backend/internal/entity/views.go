package entity

// PostView is a post bundled with its related entities. PostedBy and
// Topic are nil when the referenced entity does not exist; Comments is
// empty, never nil. Topic stays nil in the profile and topic variants,
// which do not fetch it.
type PostView struct {
	Post     *Post      `json:"post"`
	PostedBy *User      `json:"postedBy"`
	Comments []*Comment `json:"comments"`
	Topic    *Topic     `json:"topic,omitempty"`
}

// ProfileView is a user bundled with the posts they authored
type ProfileView struct {
	User  *User       `json:"user"`
	Posts []*PostView `json:"posts"`
}

// TopicView is a topic bundled with its posts
type TopicView struct {
	Topic *Topic      `json:"topic"`
	Posts []*PostView `json:"posts"`
}
