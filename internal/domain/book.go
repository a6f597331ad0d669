package domain

type BookIdentifiers struct {
	LibraryThing []string `json:"librarything,omitempty"`
	Goodreads    []string `json:"goodreads,omitempty"`
}

// BookDetails is the normalized view of an Open Library edition.
type BookDetails struct {
	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle,omitempty"`
	Description   string          `json:"description,omitempty"`
	Authors       []string        `json:"authors,omitempty"`
	PublishDate   string          `json:"publishDate,omitempty"`
	Publishers    []string        `json:"publishers,omitempty"`
	Series        []string        `json:"series,omitempty"`
	Covers        []int           `json:"covers,omitempty"`
	CoverURL      string          `json:"coverUrl,omitempty"`
	NumberOfPages int             `json:"numberOfPages,omitempty"`
	ISBN10        []string        `json:"isbn10"`
	ISBN13        []string        `json:"isbn13"`
	Identifiers   BookIdentifiers `json:"identifiers"`
	WorkID        string          `json:"workId,omitempty"`
}

type BookSearchResult struct {
	Title            string   `json:"title"`
	AuthorNames      []string `json:"authorNames"`
	CoverID          int      `json:"coverId,omitempty"`
	FirstPublishYear int      `json:"firstPublishYear,omitempty"`
	EditionCount     int      `json:"editionCount"`
	Language         []string `json:"language"`
	OpenLibraryKey   string   `json:"openLibraryKey"`
}

type BookSearchResponse struct {
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"perPage"`
	TotalPages int                `json:"totalPages"`
	Results    []BookSearchResult `json:"results"`
}
