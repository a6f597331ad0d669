package handlers

import (
	"net/http"
)

type Middleware func(http.Handler) http.Handler

// Router wires every handler onto a ServeMux under /api/v1.
type Router struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Follows       *FollowHandler
	Reviews       *ReviewHandler
	ReadingStatus *ReadingStatusHandler
	Books         *BookHandler
	WS            http.Handler

	RequireAuth  Middleware
	OptionalAuth Middleware
	// AuthLimit throttles the credential endpoints.
	AuthLimit Middleware
}

func (rt Router) Mount(mux *http.ServeMux) {
	auth := func(h http.HandlerFunc) http.Handler { return rt.RequireAuth(h) }
	optional := func(h http.HandlerFunc) http.Handler { return rt.OptionalAuth(h) }
	limited := func(h http.HandlerFunc) http.Handler { return rt.AuthLimit(h) }

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Auth
	mux.Handle("POST /api/v1/auth", limited(rt.Auth.Login))
	mux.Handle("POST /api/v1/auth/refresh", limited(rt.Auth.Refresh))
	mux.Handle("POST /api/v1/auth/logout", auth(rt.Auth.Logout))

	// Users
	mux.Handle("POST /api/v1/users", limited(rt.Users.Create))
	mux.HandleFunc("GET /api/v1/users", rt.Users.List)
	mux.HandleFunc("GET /api/v1/users/search", rt.Users.Search)
	mux.Handle("GET /api/v1/users/me", auth(rt.Users.Me))
	mux.Handle("PATCH /api/v1/users/me", auth(rt.Users.UpdateMe))
	mux.Handle("PATCH /api/v1/users/me/profile-picture", auth(rt.Users.UpdateProfilePicture))
	mux.Handle("DELETE /api/v1/users/me", auth(rt.Users.DeleteMe))
	mux.HandleFunc("GET /api/v1/users/{id}", rt.Users.Get)
	mux.Handle("GET /api/v1/users/{id}/full-profile", optional(rt.Users.FullProfile))

	// Follows
	mux.Handle("POST /api/v1/users/{id}/follow", auth(rt.Follows.Follow))
	mux.Handle("DELETE /api/v1/users/{id}/unfollow", auth(rt.Follows.Unfollow))
	mux.HandleFunc("GET /api/v1/users/{id}/followers", rt.Follows.Followers)
	mux.HandleFunc("GET /api/v1/users/{id}/following", rt.Follows.Following)
	mux.HandleFunc("GET /api/v1/users/{id}/follow-counts", rt.Follows.Counts)

	// Reviews
	mux.Handle("POST /api/v1/reviews", auth(rt.Reviews.Create))
	mux.HandleFunc("GET /api/v1/reviews/book/{openLibraryId}", rt.Reviews.ListByBook)
	mux.HandleFunc("GET /api/v1/reviews/user/{userId}", rt.Reviews.ListByUser)
	mux.Handle("GET /api/v1/reviews/{id}", optional(rt.Reviews.Get))
	mux.Handle("PATCH /api/v1/reviews/{id}", auth(rt.Reviews.Update))
	mux.Handle("DELETE /api/v1/reviews/{id}", auth(rt.Reviews.Delete))
	mux.Handle("POST /api/v1/reviews/{id}/like", auth(rt.Reviews.Like))
	mux.Handle("DELETE /api/v1/reviews/{id}/like", auth(rt.Reviews.Unlike))

	// Reading status
	mux.Handle("POST /api/v1/reading-status", auth(rt.ReadingStatus.Upsert))
	mux.Handle("GET /api/v1/reading-status", auth(rt.ReadingStatus.List))
	mux.Handle("GET /api/v1/reading-status/{openLibraryId}", auth(rt.ReadingStatus.Get))
	mux.Handle("DELETE /api/v1/reading-status/{openLibraryId}", auth(rt.ReadingStatus.Delete))

	// Books
	mux.HandleFunc("GET /api/v1/books/isbn/{isbn}", rt.Books.ByISBN)
	mux.HandleFunc("GET /api/v1/books/olid/{olid}", rt.Books.ByOLID)
	mux.HandleFunc("GET /api/v1/books/search", rt.Books.Search)

	if rt.WS != nil {
		mux.Handle("GET /ws", rt.WS)
	}
}
