package dto

// GenerateQuestionsRequest represents the request body for question generation
// @Description numberOfQuestions may be sent as a number or a numeric string
type GenerateQuestionsRequest struct {
	Role              string      `json:"role"`
	Experience        string      `json:"experience"`
	TopicsToFocus     string      `json:"topicsToFocus"`
	NumberOfQuestions interface{} `json:"numberOfQuestions" swaggertype:"integer"`
}

// GenerateQuestionsResponse carries generated questions; isFallback is set when
// the questions come from the template bank.
type GenerateQuestionsResponse struct {
	Success    bool     `json:"success"`
	Questions  []string `json:"questions"`
	IsFallback bool     `json:"isFallback,omitempty"`
}

// GenerateExplanationRequest represents the request body for a concept explanation
// @Description difficulty defaults to intermediate and language to English
type GenerateExplanationRequest struct {
	Concept    string `json:"concept"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Context    string `json:"context"`
}

type ExplanationMetadata struct {
	Model        string `json:"model"`
	ResponseTime string `json:"responseTime"`
	GeneratedAt  string `json:"generatedAt"`
	Cached       bool   `json:"cached"`
}

type ExplanationData struct {
	Concept     string              `json:"concept"`
	Difficulty  string              `json:"difficulty"`
	Language    string              `json:"language"`
	Explanation string              `json:"explanation"`
	Metadata    ExplanationMetadata `json:"metadata"`
}

// GenerateExplanationResponse wraps a generated explanation
type GenerateExplanationResponse struct {
	Success bool            `json:"success"`
	Data    ExplanationData `json:"data"`
}

type UsageData struct {
	Date               string `json:"date"`
	DailyRequests      int    `json:"dailyRequests"`
	RateLimited        bool   `json:"rateLimited"`
	DailyQuotaExceeded bool   `json:"dailyQuotaExceeded"`
}

// UsageResponse exposes the AI quota tracker state
type UsageResponse struct {
	Success bool      `json:"success"`
	Data    UsageData `json:"data"`
}
