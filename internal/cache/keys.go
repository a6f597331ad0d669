package cache

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

func ProfileKey(userID uuid.UUID) string {
	return "user:profile:" + userID.String()
}

func FollowsKey(viewerID, targetID uuid.UUID) string {
	return fmt.Sprintf("user:%s:follows:%s", viewerID, targetID)
}

func BookISBNKey(isbn string) string {
	return "book:isbn:" + isbn
}

func BookOLIDKey(olid string) string {
	return "book:olid:" + olid
}

func BookSearchKey(query string, page int) string {
	return fmt.Sprintf("book:search:%s:page:%d", url.QueryEscape(query), page)
}

func AuthorKey(authorID string) string {
	return "author:" + authorID
}
