package seedmodels

// SeedQuestion defines one question/answer pair in the JSON seed file.
type SeedQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	IsPinned bool   `json:"is_pinned"`
}

// SeedSession defines a practice session and its questions.
type SeedSession struct {
	Role          string         `json:"role"`
	Experience    string         `json:"experience"`
	TopicsToFocus string         `json:"topics_to_focus"`
	Description   string         `json:"description"`
	Questions     []SeedQuestion `json:"questions"`
}

// SeedUser defines the demo account that owns the seeded sessions.
type SeedUser struct {
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Password        string        `json:"password"`
	ProfileImageURL string        `json:"profile_image_url"`
	Sessions        []SeedSession `json:"sessions"`
}
