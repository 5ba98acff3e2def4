package model

type BlogPost struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AuthorName  string `json:"bloggername"`
	AuthorLink  string `json:"bloggerlink"`
	PostDate    string `json:"postdate"` // YYYYMMDD
	Link        string `json:"link"`
}

// BlogSearchResult is the /api/search/blogs payload.
type BlogSearchResult struct {
	Total   int64      `json:"total"`
	Display int        `json:"display"`
	Keyword string     `json:"keyword"`
	Blogs   []BlogPost `json:"blogs"`
}
