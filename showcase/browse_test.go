package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"showcase/internal/cli/client"
	"showcase/internal/cli/session"
	"showcase/internal/models"
)

func TestBrowseLoopLikeToggle(t *testing.T) {
	likes := 5
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/projects":
			_ = json.NewEncoder(w).Encode([]models.Project{{ID: "p1", Title: "Demo", Category: "Web", LikesCount: likes}})
		case r.Method == http.MethodPost && r.URL.Path == "/projects/p1/like":
			var body struct {
				IsLiking bool `json:"isLiking"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.IsLiking {
				likes++
			} else {
				likes--
			}
			_ = json.NewEncoder(w).Encode(models.ProjectLikeResult{NewLikesCount: likes, IsLiked: body.IsLiking})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sess := session.New(client.New(srv.URL, "tester"))
	input := strings.NewReader("projects\nlike p1\nlike p1\nquit\n")
	var out bytes.Buffer

	if err := browseLoop(sess, input, &out); err != nil {
		t.Fatalf("browse loop: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "p1 likes=6 liked=true") {
		t.Fatalf("first toggle missing from output:\n%s", text)
	}
	if !strings.Contains(text, "p1 likes=5 liked=false") {
		t.Fatalf("second toggle missing from output:\n%s", text)
	}
	if likes != 5 {
		t.Fatalf("server likes = %d, expected net zero", likes)
	}
}

func TestBrowseLoopPostDiscussion(t *testing.T) {
	var posted struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Category   string `json:"category"`
		AuthorName string `json:"authorName"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/discussions" {
			_ = json.NewDecoder(r.Body).Decode(&posted)
			_ = json.NewEncoder(w).Encode(models.Discussion{
				ID: "d9", Title: posted.Title, Category: posted.Category, AuthorName: posted.AuthorName,
			})
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	sess := session.New(client.New(srv.URL, "tester"))
	input := strings.NewReader("post tech A question\nthe body\nquit\n")
	var out bytes.Buffer

	if err := browseLoop(sess, input, &out); err != nil {
		t.Fatalf("browse loop: %v", err)
	}
	if !strings.Contains(out.String(), "posted d9") {
		t.Fatalf("post confirmation missing from output:\n%s", out.String())
	}
	if posted.Title != "A question" || posted.Category != "tech" || posted.Content != "the body" {
		t.Fatalf("unexpected posted payload: %+v", posted)
	}
	if posted.AuthorName != "匿名用户" {
		t.Fatalf("expected anonymous fallback author, got %q", posted.AuthorName)
	}
	if d := sess.Discussions(); len(d) != 1 || d[0].ID != "d9" {
		t.Fatalf("posted discussion not cached: %+v", d)
	}
}

func TestBrowseLoopClosedDiscussion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/discussions":
			_ = json.NewEncoder(w).Encode([]models.Discussion{{ID: "d1", Title: "Done", IsClosed: true}})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1":
			_ = json.NewEncoder(w).Encode(models.Discussion{ID: "d1", Title: "Done", IsClosed: true})
		case r.Method == http.MethodGet && r.URL.Path == "/discussions/d1/replies":
			_ = json.NewEncoder(w).Encode([]models.Reply{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	sess := session.New(client.New(srv.URL, "tester"))
	input := strings.NewReader("read d1\nreply hello there\nquit\n")
	var out bytes.Buffer

	if err := browseLoop(sess, input, &out); err != nil {
		t.Fatalf("browse loop: %v", err)
	}
	if !strings.Contains(out.String(), "discussion is closed") {
		t.Fatalf("closed rejection missing from output:\n%s", out.String())
	}
}
