package domain

// User is an account record. The Password field holds a bcrypt hash and is
// never serialized in API responses; PublicUser is the response shape.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"not null;uniqueIndex" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Public returns the response-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// Task is a public to-do record with no ownership.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"not null" json:"description"`
	Completed   bool   `json:"completed"`
}

// Newsletter is an authored record. AuthorID is the ownership field checked
// on every mutation against the authoritative store, never against cache.
type Newsletter struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
}

// Collection names, also used as the cache key namespace ("<collection>:list").
const (
	CollectionTasks       = "tasks"
	CollectionNewsletters = "newsletters"
)
