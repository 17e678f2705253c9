package model

import "time"

// User represents an account in the system. The password hash never
// leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AIAnalysis is the structured feedback produced for a diary entry at
// creation time. It is immutable afterwards.
type AIAnalysis struct {
	GeneralComment         string   `json:"generalComment"`
	PositiveAspects        []string `json:"positiveAspects"`
	ImprovementSuggestions []string `json:"improvementSuggestions"`
	OverallScore           float64  `json:"overallScore"`
}

// DiaryEntry is a journal record owned by exactly one user.
type DiaryEntry struct {
	ID         string      `json:"_id"`
	Owner      string      `json:"user"`
	Content    string      `json:"content"`
	Mood       string      `json:"mood,omitempty"`
	AIAnalysis *AIAnalysis `json:"aiAnalysis,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// UpdateDiaryRequest carries the client-mutable fields of an entry.
// AIAnalysis and Owner are deliberately absent.
type UpdateDiaryRequest struct {
	Owner   string
	EntryID string
	Content string
	Mood    string
}
