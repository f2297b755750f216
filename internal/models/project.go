package models

// Project categories accepted by the catalog.
var ProjectCategories = []string{"Web", "AI Tool", "Mobile", "Other"}

func ValidProjectCategory(category string) bool {
	for _, c := range ProjectCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Project struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	ShortDescription  string   `json:"shortDescription"`
	FullDescription   string   `json:"fullDescription"`
	BackgroundStory   string   `json:"backgroundStory"`
	UsageInstructions string   `json:"usageInstructions"`
	ThumbnailURL      string   `json:"thumbnailUrl"`
	BannerURL         string   `json:"bannerUrl"`
	ExternalLink      string   `json:"externalLink"`
	Tags              []string `json:"tags"`
	LikesCount        int      `json:"likesCount"`
	CommentsCount     int      `json:"commentsCount"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

type Comment struct {
	ID           string `json:"id"`
	ProjectID    string `json:"projectId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	Content      string `json:"content"`
	CreatedAt    string `json:"createdAt"`
}

// ProjectLikeResult is the payload of POST /projects/{id}/like. The server
// owns the counter; clients splice newLikesCount into their cached copies.
type ProjectLikeResult struct {
	NewLikesCount int  `json:"newLikesCount"`
	IsLiked       bool `json:"isLiked"`
}
