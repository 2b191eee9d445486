package models

import "testing"

func TestInvalidArticle(t *testing.T) {
	a := InvalidArticle()

	if a.Title != "INVALID" || a.Author != "INVALID" || a.Image != "INVALID" {
		t.Errorf("Expected INVALID title/author/image, got %q/%q/%q", a.Title, a.Author, a.Image)
	}
	if !a.IsInvalid() {
		t.Error("Placeholder should report itself as invalid")
	}

	a.Title = "Real title"
	if a.IsInvalid() {
		t.Error("Modified placeholder should not be reported as invalid")
	}
}

func TestArticleFilter_Matches(t *testing.T) {
	article := &Article{ID: "a", Paper: "gazette", Issue: 5, Column: ColumnLeft}
	issue := uint64(5)
	otherIssue := uint64(6)

	tests := []struct {
		name   string
		filter ArticleFilter
		want   bool
	}{
		{"empty filter matches everything", ArticleFilter{}, true},
		{"issue only", ArticleFilter{Issue: &issue}, true},
		{"wrong issue", ArticleFilter{Issue: &otherIssue}, false},
		{"full issue column", IssueColumn("gazette", 5, ColumnLeft), true},
		{"other column", IssueColumn("gazette", 5, ColumnRight), false},
		{"other paper", IssueColumn("chronicle", 5, ColumnLeft), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(article); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
