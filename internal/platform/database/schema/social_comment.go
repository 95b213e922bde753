package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	UserID    string
	VideoID   string
	Content   string
	IsDeleted string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	UserID:    "userid",
	VideoID:   "videoid",
	Content:   "content",
	IsDeleted: "isdeleted",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
