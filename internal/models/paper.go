package models

// Paper represents a named publication and its currently featured issue
type Paper struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	FeaturedIssue uint64 `json:"featured_issue" db:"featured_issue"`
	Logo          string `json:"logo" db:"logo"`
}

// PaperSummary is the projection used to fill paper selection inputs
type PaperSummary struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CreatePaperRequest is the body of POST /api/create_paper
type CreatePaperRequest struct {
	Paper Paper  `json:"paper"`
	Code  uint32 `json:"code"`
}
