// Package session holds the client-side view of the backend: cached project
// and discussion lists, the caller's like state, and the optimistic-update
// bookkeeping that keeps counters consistent while requests are in flight.
package session

import (
	"errors"
	"strings"
	"sync"

	"showcase/internal/cli/client"
	"showcase/internal/models"
)

var (
	// ErrEmptyInput is returned before any request is made when submitted
	// text is empty or whitespace-only.
	ErrEmptyInput = errors.New("content must not be empty")

	// ErrDiscussionClosed is returned locally when the cached discussion is
	// closed; the server enforces the same rule.
	ErrDiscussionClosed = errors.New("discussion is closed")

	// ErrNoSelection is returned by operations that need a selected
	// discussion when none is selected.
	ErrNoSelection = errors.New("no discussion selected")
)

// InsightFallback is shown when the insight endpoint fails.
const InsightFallback = "AI 暂时无法提供点评。"

// insightEmpty is shown when the endpoint succeeds with no text.
const insightEmpty = "暂无 AI 点评。"

// Session is safe for concurrent use. All cached state is guarded by mu;
// network calls happen with the lock released so that slow responses never
// block local reads or other operations.
type Session struct {
	mu sync.Mutex

	client *client.Client

	projects []models.Project
	comments map[string][]models.Comment
	liked    map[string]bool
	insights map[string]string

	discussions   []models.Discussion
	selected      *models.Discussion
	replies       []models.Reply
	discussionSeq uint64
}

func New(c *client.Client) *Session {
	return &Session{
		client:   c,
		comments: make(map[string][]models.Comment),
		liked:    make(map[string]bool),
		insights: make(map[string]string),
	}
}

// RefreshProjects replaces the cached project list.
func (s *Session) RefreshProjects(category string) error {
	projects, err := s.client.ListProjects(category)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Projects returns a copy of the cached list.
func (s *Session) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Session) Project(id string) (*models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			p := s.projects[i]
			return &p, true
		}
	}
	return nil, false
}

// Liked reports whether this session has liked the project.
func (s *Session) Liked(projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked[projectID]
}

// LikeProject toggles the caller's like on a project. The counter and liked
// flag flip immediately; if the request fails both are restored to the
// pre-toggle snapshot. The server's response is authoritative on success.
func (s *Session) LikeProject(projectID string) error {
	s.mu.Lock()
	wasLiked := s.liked[projectID]
	delta := 1
	if wasLiked {
		delta = -1
	}
	s.applyProjectEventLocked(projectID, projectEvent{likeDelta: delta})
	s.liked[projectID] = !wasLiked
	s.mu.Unlock()

	result, err := s.client.ToggleLike(projectID, !wasLiked)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Rejected: undo the flip.
		s.applyProjectEventLocked(projectID, projectEvent{likeDelta: -delta})
		s.liked[projectID] = wasLiked
		return err
	}
	s.applyProjectEventLocked(projectID, projectEvent{likesSet: &result.NewLikesCount})
	s.liked[projectID] = result.IsLiked
	return nil
}

// RefreshComments loads a project's comment list into the cache.
func (s *Session) RefreshComments(projectID string) error {
	comments, err := s.client.ListComments(projectID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.comments[projectID] = comments
	s.mu.Unlock()
	return nil
}

func (s *Session) Comments(projectID string) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Comment, len(s.comments[projectID]))
	copy(out, s.comments[projectID])
	return out
}

// PostComment submits a comment and prepends the created record to the
// cached list. Empty content is rejected before any request is made.
func (s *Session) PostComment(projectID, content, author string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" || strings.TrimSpace(author) == "" {
		return nil, ErrEmptyInput
	}
	comment, err := s.client.CreateComment(projectID, content, author)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.comments[projectID] = append([]models.Comment{*comment}, s.comments[projectID]...)
	s.applyProjectEventLocked(projectID, projectEvent{commentAdded: true})
	s.mu.Unlock()
	return comment, nil
}

// Insight fetches (or returns the cached) AI commentary for a project. A
// failed or empty response yields a fallback string, never an error: the
// commentary is decoration, not data.
func (s *Session) Insight(projectID string) string {
	s.mu.Lock()
	if cached, ok := s.insights[projectID]; ok {
		s.mu.Unlock()
		return cached
	}
	var project *models.Project
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			p := s.projects[i]
			project = &p
			break
		}
	}
	s.mu.Unlock()

	if project == nil {
		return InsightFallback
	}
	insight, err := s.client.ProjectInsight(project.Title, project.BackgroundStory, project.ShortDescription)
	if err != nil {
		return InsightFallback
	}
	if strings.TrimSpace(insight) == "" {
		insight = insightEmpty
	}
	s.mu.Lock()
	s.insights[projectID] = insight
	s.mu.Unlock()
	return insight
}

// RefreshDiscussions reloads the discussion list. Each call takes a sequence
// number; a response is applied only if no newer refresh started while it
// was in flight, so a slow old response can never clobber a newer list.
func (s *Session) RefreshDiscussions(opts client.DiscussionListOptions) error {
	s.mu.Lock()
	s.discussionSeq++
	seq := s.discussionSeq
	s.mu.Unlock()

	discussions, err := s.client.ListDiscussions(opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.discussionSeq {
		// A newer refresh superseded this one; discard, including errors.
		return nil
	}
	if err != nil {
		return err
	}
	s.discussions = discussions
	return nil
}

func (s *Session) Discussions() []models.Discussion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Discussion, len(s.discussions))
	copy(out, s.discussions)
	return out
}

// SelectDiscussion loads a discussion and its replies and makes it current.
// The server counts the read as a view.
func (s *Session) SelectDiscussion(id string) (*models.Discussion, error) {
	discussion, err := s.client.GetDiscussion(id)
	if err != nil {
		return nil, err
	}
	replies, err := s.client.ListReplies(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.selected = discussion
	s.replies = replies
	s.applyDiscussionEventLocked(id, discussionEvent{viewsSet: &discussion.ViewsCount})
	s.mu.Unlock()
	d := *discussion
	return &d, nil
}

func (s *Session) Selected() (*models.Discussion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil, false
	}
	d := *s.selected
	return &d, true
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selected = nil
	s.replies = nil
	s.mu.Unlock()
}

func (s *Session) Replies() []models.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reply, len(s.replies))
	copy(out, s.replies)
	return out
}

// PostDiscussion creates a discussion and prepends it to the cached list.
// Empty fields are rejected before any request is made.
func (s *Session) PostDiscussion(title, content, category, authorName string) (*models.Discussion, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" ||
		strings.TrimSpace(authorName) == "" {
		return nil, ErrEmptyInput
	}
	discussion, err := s.client.CreateDiscussion(title, content, category, authorName)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.discussions = append([]models.Discussion{*discussion}, s.discussions...)
	s.mu.Unlock()
	return discussion, nil
}

// PostReply appends a reply to the selected discussion. The closed check runs
// before the empty check and before any request, mirroring the server rule.
func (s *Session) PostReply(content, authorName string, replyToID *string) (*models.Reply, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	if s.selected.IsClosed {
		s.mu.Unlock()
		return nil, ErrDiscussionClosed
	}
	discussionID := s.selected.ID
	s.mu.Unlock()

	if strings.TrimSpace(content) == "" || strings.TrimSpace(authorName) == "" {
		return nil, ErrEmptyInput
	}

	reply, err := s.client.CreateReply(discussionID, content, authorName, replyToID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.selected != nil && s.selected.ID == discussionID {
		s.replies = append(s.replies, *reply)
	}
	s.applyDiscussionEventLocked(discussionID, discussionEvent{replyAdded: true})
	s.mu.Unlock()
	return reply, nil
}

// LikeDiscussion increments the like counter on the server, then splices the
// authoritative count into every cached copy. No optimistic step: discussion
// likes are one-way and cheap to wait for.
func (s *Session) LikeDiscussion(id string) (int, error) {
	count, err := s.client.LikeDiscussion(id)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.applyDiscussionEventLocked(id, discussionEvent{likesSet: &count})
	s.mu.Unlock()
	return count, nil
}

// LikeReply increments a reply's like counter within the selected discussion.
func (s *Session) LikeReply(replyID string) (int, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return 0, ErrNoSelection
	}
	discussionID := s.selected.ID
	s.mu.Unlock()

	count, err := s.client.LikeReply(discussionID, replyID)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	for i := range s.replies {
		if s.replies[i].ID == replyID {
			s.replies[i].LikesCount = count
			break
		}
	}
	s.mu.Unlock()
	return count, nil
}

type projectEvent struct {
	commentAdded bool
	likeDelta    int
	likesSet     *int
}

// applyProjectEventLocked updates every cached copy of a project so list and
// detail views can never disagree. Callers must hold mu.
func (s *Session) applyProjectEventLocked(projectID string, ev projectEvent) {
	for i := range s.projects {
		if s.projects[i].ID != projectID {
			continue
		}
		if ev.commentAdded {
			s.projects[i].CommentsCount++
		}
		if ev.likeDelta != 0 {
			s.projects[i].LikesCount += ev.likeDelta
			if s.projects[i].LikesCount < 0 {
				s.projects[i].LikesCount = 0
			}
		}
		if ev.likesSet != nil {
			s.projects[i].LikesCount = *ev.likesSet
		}
	}
}

type discussionEvent struct {
	replyAdded bool
	likesSet   *int
	viewsSet   *int
}

// applyDiscussionEventLocked updates the cached list and the selected copy.
// Callers must hold mu.
func (s *Session) applyDiscussionEventLocked(discussionID string, ev discussionEvent) {
	apply := func(d *models.Discussion) {
		if ev.replyAdded {
			d.RepliesCount++
		}
		if ev.likesSet != nil {
			d.LikesCount = *ev.likesSet
		}
		if ev.viewsSet != nil {
			d.ViewsCount = *ev.viewsSet
		}
	}
	for i := range s.discussions {
		if s.discussions[i].ID == discussionID {
			apply(&s.discussions[i])
		}
	}
	if s.selected != nil && s.selected.ID == discussionID {
		apply(s.selected)
	}
}
