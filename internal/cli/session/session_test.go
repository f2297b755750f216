package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"showcase/internal/cli/client"
	"showcase/internal/models"
)

func TestLikeProjectOptimisticThenConfirmed(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/projects":
			writeJSON(w, []models.Project{{ID: "p1", Title: "One", LikesCount: 5}})
		case r.Method == http.MethodPost && r.URL.Path == "/projects/p1/like":
			requests.Add(1)
			if r.Header.Get("X-User-Identifier") != "tester" {
				t.Errorf("missing user identifier header")
			}
			var body struct {
				IsLiking bool `json:"isLiking"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.IsLiking {
				writeJSON(w, models.ProjectLikeResult{NewLikesCount: 6, IsLiked: true})
			} else {
				writeJSON(w, models.ProjectLikeResult{NewLikesCount: 5, IsLiked: false})
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh projects: %v", err)
	}

	if err := sess.LikeProject("p1"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if !sess.Liked("p1") {
		t.Fatal("project not marked liked")
	}
	if p, _ := sess.Project("p1"); p.LikesCount != 6 {
		t.Fatalf("likesCount = %d, expected 6", p.LikesCount)
	}

	// Second call toggles back; the pair nets to the starting state.
	if err := sess.LikeProject("p1"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if sess.Liked("p1") {
		t.Fatal("project still marked liked after toggle back")
	}
	if p, _ := sess.Project("p1"); p.LikesCount != 5 {
		t.Fatalf("likesCount = %d, expected 5 after toggle back", p.LikesCount)
	}
	if requests.Load() != 2 {
		t.Fatalf("expected 2 like requests, got %d", requests.Load())
	}
}

func TestLikeProjectRevertsOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/projects":
			writeJSON(w, []models.Project{{ID: "p1", Title: "One", LikesCount: 5}})
		case r.Method == http.MethodPost && r.URL.Path == "/projects/p1/like":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh projects: %v", err)
	}

	err := sess.LikeProject("p1")
	if err == nil {
		t.Fatal("expected error from failing like")
	}
	if sess.Liked("p1") {
		t.Fatal("liked flag not reverted after failure")
	}
	if p, _ := sess.Project("p1"); p.LikesCount != 5 {
		t.Fatalf("likesCount = %d, expected revert to 5", p.LikesCount)
	}
}

func TestPostCommentUpdatesEveryCachedCopy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/projects":
			writeJSON(w, []models.Project{
				{ID: "p1", Title: "One", CommentsCount: 1},
				{ID: "p2", Title: "Two"},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/projects/p1/comments":
			writeJSON(w, []models.Comment{{ID: "c1", ProjectID: "p1", Content: "existing"}})
		case r.Method == http.MethodPost && r.URL.Path == "/projects/p1/comments":
			writeJSON(w, models.Comment{ID: "c2", ProjectID: "p1", Content: "fresh", AuthorName: "me"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh projects: %v", err)
	}
	if err := sess.RefreshComments("p1"); err != nil {
		t.Fatalf("refresh comments: %v", err)
	}

	if _, err := sess.PostComment("p1", "fresh", "me"); err != nil {
		t.Fatalf("post comment: %v", err)
	}

	comments := sess.Comments("p1")
	if len(comments) != 2 || comments[0].ID != "c2" {
		t.Fatalf("new comment not prepended: %+v", comments)
	}
	if p, _ := sess.Project("p1"); p.CommentsCount != 2 {
		t.Fatalf("commentsCount = %d, expected 2", p.CommentsCount)
	}
	if p, _ := sess.Project("p2"); p.CommentsCount != 0 {
		t.Fatalf("unrelated project counter changed: %d", p.CommentsCount)
	}
}

func TestPostCommentEmptyInputMakesNoRequest(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	for _, content := range []string{"", "   ", "\t\n"} {
		if _, err := sess.PostComment("p1", content, "me"); err != ErrEmptyInput {
			t.Fatalf("content %q: expected ErrEmptyInput, got %v", content, err)
		}
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no requests, server saw %d", requests.Load())
	}
}

func TestRefreshDiscussionsDiscardsStaleResponse(t *testing.T) {
	oldStarted := make(chan struct{})
	releaseOld := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discussions" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("category") {
		case "tech":
			close(oldStarted)
			<-releaseOld
			writeJSON(w, []models.Discussion{{ID: "stale", Title: "Stale"}})
		default:
			writeJSON(w, []models.Discussion{{ID: "fresh", Title: "Fresh"}})
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))

	staleDone := make(chan error, 1)
	go func() {
		staleDone <- sess.RefreshDiscussions(client.DiscussionListOptions{Category: "tech"})
	}()
	<-oldStarted

	if err := sess.RefreshDiscussions(client.DiscussionListOptions{}); err != nil {
		t.Fatalf("newer refresh: %v", err)
	}
	close(releaseOld)
	if err := <-staleDone; err != nil {
		t.Fatalf("stale refresh returned error: %v", err)
	}

	discussions := sess.Discussions()
	if len(discussions) != 1 || discussions[0].ID != "fresh" {
		t.Fatalf("stale response overwrote newer list: %+v", discussions)
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			writeJSON(w, []models.Project{{ID: "p1", Title: "Original"}})
		case "/discussions":
			writeJSON(w, []models.Discussion{{ID: "d1", Title: "Original"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh projects: %v", err)
	}
	if err := sess.RefreshDiscussions(client.DiscussionListOptions{}); err != nil {
		t.Fatalf("refresh discussions: %v", err)
	}

	sess.Projects()[0].Title = "Mutated"
	sess.Discussions()[0].Title = "Mutated"

	if p, _ := sess.Project("p1"); p.Title != "Original" {
		t.Fatal("cached project mutated through returned slice")
	}
	if d := sess.Discussions(); d[0].Title != "Original" {
		t.Fatal("cached discussion mutated through returned slice")
	}
}

func TestPostReplyClosedDiscussionRejectedLocally(t *testing.T) {
	var replyRequests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1":
			writeJSON(w, models.Discussion{ID: "d1", Title: "Done", IsClosed: true, ViewsCount: 3})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1/replies":
			writeJSON(w, []models.Reply{})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/replies"):
			replyRequests.Add(1)
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if _, err := sess.SelectDiscussion("d1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, err := sess.PostReply("hello", "me", nil); err != ErrDiscussionClosed {
		t.Fatalf("expected ErrDiscussionClosed, got %v", err)
	}
	if replyRequests.Load() != 0 {
		t.Fatalf("closed guard let %d requests through", replyRequests.Load())
	}
}

func TestPostReplyWithoutSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if _, err := sess.PostReply("hello", "me", nil); err != ErrNoSelection {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestPostReplyAppendsAndBumpsCounter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/discussions":
			writeJSON(w, []models.Discussion{{ID: "d1", Title: "Open", RepliesCount: 1}})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1":
			writeJSON(w, models.Discussion{ID: "d1", Title: "Open", RepliesCount: 1, ViewsCount: 1})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1/replies":
			writeJSON(w, []models.Reply{{ID: "r1", DiscussionID: "d1", Content: "first"}})
		case r.Method == http.MethodPost && r.URL.Path == "/discussions/d1/replies":
			writeJSON(w, models.Reply{ID: "r2", DiscussionID: "d1", Content: "second", AuthorName: "me"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshDiscussions(client.DiscussionListOptions{}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := sess.SelectDiscussion("d1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, err := sess.PostReply("second", "me", nil); err != nil {
		t.Fatalf("post reply: %v", err)
	}

	replies := sess.Replies()
	if len(replies) != 2 || replies[1].ID != "r2" {
		t.Fatalf("reply not appended: %+v", replies)
	}
	selected, _ := sess.Selected()
	if selected.RepliesCount != 2 {
		t.Fatalf("selected repliesCount = %d, expected 2", selected.RepliesCount)
	}
	if d := sess.Discussions(); d[0].RepliesCount != 2 {
		t.Fatalf("list repliesCount = %d, expected 2", d[0].RepliesCount)
	}
}

func TestPostDiscussionEmptyFieldsMakeNoRequest(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	cases := []struct {
		title, content, author string
	}{
		{"", "body", "me"},
		{"title", "   ", "me"},
		{"title", "body", ""},
		{"title", "body", "  \t"},
	}
	for _, c := range cases {
		if _, err := sess.PostDiscussion(c.title, c.content, "general", c.author); err != ErrEmptyInput {
			t.Fatalf("(%q,%q,%q): expected ErrEmptyInput, got %v", c.title, c.content, c.author, err)
		}
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no requests, server saw %d", requests.Load())
	}
}

func TestPostDiscussionPrependsToCachedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/discussions":
			writeJSON(w, []models.Discussion{{ID: "d1", Title: "Older"}})
		case r.Method == http.MethodPost && r.URL.Path == "/discussions":
			writeJSON(w, models.Discussion{ID: "d2", Title: "Newer", Category: "general", AuthorName: "me"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshDiscussions(client.DiscussionListOptions{}); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	created, err := sess.PostDiscussion("Newer", "body", "general", "me")
	if err != nil {
		t.Fatalf("post discussion: %v", err)
	}
	if created.ID != "d2" {
		t.Fatalf("unexpected created discussion: %+v", created)
	}
	discussions := sess.Discussions()
	if len(discussions) != 2 || discussions[0].ID != "d2" {
		t.Fatalf("new discussion not prepended: %+v", discussions)
	}
}

func TestLikeDiscussionSplicesAuthoritativeCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/discussions":
			writeJSON(w, []models.Discussion{{ID: "d1", Title: "Open", LikesCount: 7}})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1":
			writeJSON(w, models.Discussion{ID: "d1", Title: "Open", LikesCount: 7})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1/replies":
			writeJSON(w, []models.Reply{})
		case r.Method == http.MethodPost && r.URL.Path == "/discussions/d1/like":
			writeJSON(w, models.LikeCount{LikesCount: 8})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshDiscussions(client.DiscussionListOptions{}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := sess.SelectDiscussion("d1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	count, err := sess.LikeDiscussion("d1")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if count != 8 {
		t.Fatalf("count = %d, expected 8", count)
	}
	if d := sess.Discussions(); d[0].LikesCount != 8 {
		t.Fatalf("list copy not updated: %+v", d[0])
	}
	if selected, _ := sess.Selected(); selected.LikesCount != 8 {
		t.Fatalf("selected copy not updated: %+v", selected)
	}
}

func TestInsightFallbacks(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			writeJSON(w, []models.Project{{ID: "p1", Title: "One"}})
		case "/ai/insights":
			writeJSON(w, map[string]string{"insight": ""})
		default:
			http.NotFound(w, r)
		}
	}))
	defer empty.Close()

	sess := New(client.New(empty.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := sess.Insight("p1"); got != insightEmpty {
		t.Fatalf("empty insight = %q, expected %q", got, insightEmpty)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			writeJSON(w, []models.Project{{ID: "p1", Title: "One"}})
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"ai service not configured"}`))
		}
	}))
	defer failing.Close()

	sess = New(client.New(failing.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := sess.Insight("p1"); got != InsightFallback {
		t.Fatalf("failed insight = %q, expected %q", got, InsightFallback)
	}

	// Unknown projects get the fallback too, no request needed.
	if got := sess.Insight("missing"); got != InsightFallback {
		t.Fatalf("missing project insight = %q", got)
	}
}

func TestInsightCached(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			writeJSON(w, []models.Project{{ID: "p1", Title: "One"}})
		case "/ai/insights":
			requests.Add(1)
			writeJSON(w, map[string]string{"insight": "sharp idea, clean execution"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sess := New(client.New(server.URL, "tester"))
	if err := sess.RefreshProjects(""); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	first := sess.Insight("p1")
	second := sess.Insight("p1")
	if first != second || first != "sharp idea, clean execution" {
		t.Fatalf("insight changed between calls: %q vs %q", first, second)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected 1 upstream request, got %d", requests.Load())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
