package schema

// CoreVideoTable represents the 'core.video' table
type CoreVideoTable struct {
	Table        string
	ID           string
	OwnerID      string
	Title        string
	Description  string
	Slug         string
	VideoURL     string
	ThumbnailURL string
	Duration     string
	Views        string
	IsPublished  string
	SearchVector string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
}

// CoreVideo is the schema definition for core.video
var CoreVideo = CoreVideoTable{
	Table:        "core.video",
	ID:           "id",
	OwnerID:      "ownerid",
	Title:        "title",
	Description:  "description",
	Slug:         "slug",
	VideoURL:     "videourl",
	ThumbnailURL: "thumbnailurl",
	Duration:     "duration",
	Views:        "views",
	IsPublished:  "ispublished",
	SearchVector: "searchvector",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
}

// Columns returns all standard column names
func (t CoreVideoTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Description, t.Slug, t.VideoURL,
		t.ThumbnailURL, t.Duration, t.Views, t.IsPublished,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
