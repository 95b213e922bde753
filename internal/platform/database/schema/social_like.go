package schema

// SocialLikeTable represents the 'social.like' table
type SocialLikeTable struct {
	Table     string
	ID        string
	UserID    string
	VideoID   string
	CommentID string
	CreatedAt string
}

// SocialLike is the schema definition for social.like
var SocialLike = SocialLikeTable{
	Table:     "social.like",
	ID:        "id",
	UserID:    "userid",
	VideoID:   "videoid",
	CommentID: "commentid",
	CreatedAt: "createdat",
}
