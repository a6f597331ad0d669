package openlibrary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
)

const coversBaseURL = "https://covers.openlibrary.org/b/id/"

type KeyRef struct {
	Key string `json:"key"`
}

// Edition is the subset of an Open Library edition record the API exposes.
type Edition struct {
	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle"`
	Description   json.RawMessage `json:"description"`
	Authors       []KeyRef        `json:"authors"`
	PublishDate   string          `json:"publish_date"`
	Publishers    []string        `json:"publishers"`
	Series        []string        `json:"series"`
	Covers        []int           `json:"covers"`
	NumberOfPages int             `json:"number_of_pages"`
	ISBN10        []string        `json:"isbn_10"`
	ISBN13        []string        `json:"isbn_13"`
	Identifiers   struct {
		LibraryThing []string `json:"librarything"`
		Goodreads    []string `json:"goodreads"`
	} `json:"identifiers"`
	Works []KeyRef `json:"works"`
}

// AuthorIDs returns the trailing id of every author key ("/authors/OL1A" -> "OL1A").
func (e *Edition) AuthorIDs() []string {
	ids := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if id := lastSegment(a.Key); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Details normalizes the edition. authors replaces the raw author ids when
// non-empty.
func (e *Edition) Details(authors []string) domain.BookDetails {
	d := domain.BookDetails{
		Title:         e.Title,
		Subtitle:      e.Subtitle,
		Description:   descriptionText(e.Description),
		Authors:       e.AuthorIDs(),
		PublishDate:   e.PublishDate,
		Publishers:    e.Publishers,
		Series:        e.Series,
		Covers:        e.Covers,
		NumberOfPages: e.NumberOfPages,
		ISBN10:        e.ISBN10,
		ISBN13:        e.ISBN13,
		Identifiers: domain.BookIdentifiers{
			LibraryThing: e.Identifiers.LibraryThing,
			Goodreads:    e.Identifiers.Goodreads,
		},
	}
	if len(authors) > 0 {
		d.Authors = authors
	}
	if d.ISBN10 == nil {
		d.ISBN10 = []string{}
	}
	if d.ISBN13 == nil {
		d.ISBN13 = []string{}
	}
	if len(e.Covers) > 0 {
		d.CoverURL = fmt.Sprintf("%s%d-L.jpg", coversBaseURL, e.Covers[0])
	}
	if len(e.Works) > 0 {
		d.WorkID = lastSegment(e.Works[0].Key)
	}
	return d
}

// descriptionText accepts both the plain string and the {"type","value"} forms.
func descriptionText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed.Value
	}
	return ""
}

func lastSegment(key string) string {
	key = strings.TrimRight(key, "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

type SearchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverI           int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
	Language         []string `json:"language"`
	Key              string   `json:"key"`
}

type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// PerPage is the fixed page size of the search endpoint.
const PerPage = 100

func (r *SearchResponse) Page(page int) domain.BookSearchResponse {
	results := make([]domain.BookSearchResult, len(r.Docs))
	for i, doc := range r.Docs {
		results[i] = domain.BookSearchResult{
			Title:            doc.Title,
			AuthorNames:      nonNil(doc.AuthorName),
			CoverID:          doc.CoverI,
			FirstPublishYear: doc.FirstPublishYear,
			EditionCount:     doc.EditionCount,
			Language:         nonNil(doc.Language),
			OpenLibraryKey:   doc.Key,
		}
	}
	return domain.BookSearchResponse{
		Total:      r.NumFound,
		Page:       page,
		PerPage:    PerPage,
		TotalPages: (r.NumFound + PerPage - 1) / PerPage,
		Results:    results,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
