package models

// Discussion categories accepted by the community board.
var DiscussionCategories = []string{"general", "tech", "idea", "help"}

type Discussion struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Category     string `json:"category"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	ViewsCount   int    `json:"viewsCount"`
	LikesCount   int    `json:"likesCount"`
	RepliesCount int    `json:"repliesCount"`
	IsPinned     bool   `json:"isPinned"`
	IsClosed     bool   `json:"isClosed"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
	LastReplyAt  string `json:"lastReplyAt"`
}

type Reply struct {
	ID           string  `json:"id"`
	DiscussionID string  `json:"discussionId"`
	Content      string  `json:"content"`
	AuthorName   string  `json:"authorName"`
	AuthorAvatar string  `json:"authorAvatar"`
	LikesCount   int     `json:"likesCount"`
	ReplyToID    *string `json:"replyToId"`
	CreatedAt    string  `json:"createdAt"`
}

// LikeCount is the payload of the one-way discussion and reply like endpoints.
type LikeCount struct {
	LikesCount int `json:"likesCount"`
}

type DiscussionStats struct {
	TotalDiscussions int            `json:"totalDiscussions"`
	TotalReplies     int            `json:"totalReplies"`
	Categories       map[string]int `json:"categories"`
}

func ValidDiscussionCategory(category string) bool {
	for _, c := range DiscussionCategories {
		if c == category {
			return true
		}
	}
	return false
}
