package respond

type ArticleItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	Views     int64  `json:"views"`
	IsPublic  bool   `json:"is_public"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ArticleList struct {
	Items []ArticleItem `json:"items"`
	Total int64         `json:"total"`
}
