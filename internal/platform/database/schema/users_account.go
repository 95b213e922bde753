package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	FullName     string
	Password     string
	Role         string
	RefreshToken string
	IsVerified   string
	AvatarURL    string
	CoverURL     string
	Bio          string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	FullName:     "fullname",
	Password:     "passwordhash",
	Role:         "role",
	RefreshToken: "refreshtoken",
	IsVerified:   "isverified",
	AvatarURL:    "avatarurl",
	CoverURL:     "coverurl",
	Bio:          "bio",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.Password, t.Role,
		t.RefreshToken, t.IsVerified,
		t.AvatarURL, t.CoverURL, t.Bio,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
