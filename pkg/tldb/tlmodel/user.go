package tlmodel

// User is mirrored read-only from the central database. Local logins are
// checked against the mirrored hashed password.
type User struct {
	ID             string `json:"id" gorm:"primaryKey"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	Active         int    `json:"active"`
	HashedPassword string `json:"-"`
	CreatedAt      string `json:"created_at"`
	IsDelete       int    `json:"is_delete"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsActive() bool {
	return u.Active != 0
}
