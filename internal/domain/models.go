package domain

import "time"

// User represents a platform member as returned by the API. The same shape
// serves the authenticated identity and the candidate list for new chats.
type User struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	Department      *string `json:"department,omitempty"`
	GraduationYear  *int    `json:"graduation_year,omitempty"`
	CurrentCompany  *string `json:"current_company,omitempty"`
	CurrentPosition *string `json:"current_position,omitempty"`
	Location        *string `json:"location,omitempty"`
	Avatar          *string `json:"avatar,omitempty"`
	IsOnline        bool    `json:"is_online,omitempty"`
}

// Roles known to the platform.
const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
)

// Conversation is a durable pairing of two users. The counterpart's identity
// and the last-message preview are denormalized onto it by the server so the
// inbox can render without fetching each history.
type Conversation struct {
	ID              int64      `json:"id"`
	OtherUserID     int64      `json:"other_user_id"`
	OtherUserName   string     `json:"other_user_name"`
	OtherUserEmail  string     `json:"other_user_email"`
	OtherUserRole   string     `json:"other_user_role"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	UnreadCount     int        `json:"unread_count"`
	IsOnline        bool       `json:"is_online,omitempty"`
}

// Message is a single chat message. Immutable once created; the client only
// ever appends newly sent ones to the in-memory sequence.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	IsRead     bool      `json:"is_read"`
}

// Skill, Achievement and Language are the structured profile sub-entities.
// The API sometimes returns these lists as JSON-encoded strings; callers
// normalize them through format.ParseJSONField before decoding.
type Skill struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Proficiency string `json:"proficiency"`
}

type Achievement struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type"`
	DateEarned  *string `json:"date_earned,omitempty"`
	Issuer      *string `json:"issuer,omitempty"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Profile is the read-only view of a user's full profile page.
type Profile struct {
	User
	Bio            *string       `json:"bio,omitempty"`
	Hall           *string       `json:"hall,omitempty"`
	Branch         *string       `json:"branch,omitempty"`
	WorkPreference *string       `json:"work_preference,omitempty"`
	Skills         []Skill       `json:"skills,omitempty"`
	Achievements   []Achievement `json:"achievements,omitempty"`
	Languages      []Language    `json:"languages,omitempty"`
	Phone          *string       `json:"phone,omitempty"`
	Website        *string       `json:"website,omitempty"`
	LinkedIn       *string       `json:"linkedin,omitempty"`
	GitHub         *string       `json:"github,omitempty"`
}

// Project is a posting alumni create and students apply to.
type Project struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	TeamMembers    []string  `json:"team_members"`
	Tags           []string  `json:"tags"`
	SkillsRequired []string  `json:"skills_required"`
	Stipend        *int      `json:"stipend,omitempty"`
	Duration       *string   `json:"duration,omitempty"`
	Location       *string   `json:"location,omitempty"`
	WorkType       *string   `json:"work_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedByName  string    `json:"created_by_name"`
	CreatedByEmail string    `json:"created_by_email"`
}

// ProjectStatusActive is the only status shown on the public listing.
const ProjectStatusActive = "active"

// BlogPost is a community post with a like counter.
type BlogPost struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar *string   `json:"author_avatar,omitempty"`
	AuthorID     int64     `json:"author_id"`
	LikesCount   int       `json:"likes_count"`
	IsLiked      bool      `json:"is_liked"`
}
