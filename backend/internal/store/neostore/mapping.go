package neostore

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"musty/backend/internal/entity"
)

func userID(u *entity.User) *string       { return &u.ID }
func postID(p *entity.Post) *string       { return &p.ID }
func commentID(c *entity.Comment) *string { return &c.ID }
func topicID(t *entity.Topic) *string     { return &t.ID }

func userProps(u *entity.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"password":  u.Password,
		"pronoun":   u.Pronoun,
		"joined":    u.Joined,
		"followers": toAnySlice(u.Followers),
		"following": toAnySlice(u.Following),
	}
}

func userFromNode(node neo4j.Node) *entity.User {
	return &entity.User{
		ID:        getString(node, "id"),
		Name:      getString(node, "name"),
		Email:     getString(node, "email"),
		Password:  getString(node, "password"),
		Pronoun:   getString(node, "pronoun"),
		Joined:    getString(node, "joined"),
		Followers: getStringSlice(node, "followers"),
		Following: getStringSlice(node, "following"),
	}
}

func postProps(p *entity.Post) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"caption":    p.Caption,
		"postedByID": p.PostedByID,
		"topicID":    p.TopicID,
		"datePosted": p.DatePosted,
	}
}

func postFromNode(node neo4j.Node) *entity.Post {
	return &entity.Post{
		ID:         getString(node, "id"),
		Caption:    getString(node, "caption"),
		PostedByID: getString(node, "postedByID"),
		TopicID:    getString(node, "topicID"),
		DatePosted: getString(node, "datePosted"),
	}
}

func commentProps(c *entity.Comment) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"comment":       c.Comment,
		"commentedByID": c.CommentedByID,
		"postID":        c.PostID,
	}
}

func commentFromNode(node neo4j.Node) *entity.Comment {
	return &entity.Comment{
		ID:            getString(node, "id"),
		Comment:       getString(node, "comment"),
		CommentedByID: getString(node, "commentedByID"),
		PostID:        getString(node, "postID"),
	}
}

func topicProps(t *entity.Topic) map[string]any {
	return map[string]any{
		"id":    t.ID,
		"title": t.Title,
	}
}

func topicFromNode(node neo4j.Node) *entity.Topic {
	return &entity.Topic{
		ID:    getString(node, "id"),
		Title: getString(node, "title"),
	}
}

func nodeValue(record *neo4j.Record) (neo4j.Node, error) {
	val, ok := record.Get("n")
	if !ok {
		return neo4j.Node{}, fmt.Errorf("query result has no 'n' column")
	}
	node, ok := val.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("query result 'n' is not a node")
	}
	return node, nil
}

func getString(node neo4j.Node, key string) string {
	val, ok := node.Props[key]
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getStringSlice(node neo4j.Node, key string) []string {
	out := make([]string, 0)
	val, ok := node.Props[key]
	if !ok || val == nil {
		return out
	}
	list, ok := val.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
