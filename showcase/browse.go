package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"showcase/internal/cli/client"
	"showcase/internal/cli/config"
	"showcase/internal/cli/identity"
	"showcase/internal/cli/session"
)

// cmdBrowse runs the interactive mode. Unlike the one-shot subcommands it
// keeps a session alive, so likes toggle, counters update optimistically,
// and list refreshes discard stale responses.
func cmdBrowse(args []string) error {
	if len(args) != 0 {
		return errors.New("usage: showcase browse")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.ServerURL == "" {
		return errors.New("not connected. run: showcase connect <url>")
	}
	userID, err := identity.UserIdentifier()
	if err != nil {
		return err
	}
	sess := session.New(client.New(cfg.ServerURL, userID))
	return browseLoop(sess, os.Stdin, os.Stdout)
}

func browseLoop(sess *session.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "showcase browse — type 'help' for commands, 'quit' to exit")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, rest := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			printBrowseHelp(out)
		case "projects":
			category := ""
			if len(rest) > 0 {
				category = rest[0]
			}
			if err := sess.RefreshProjects(category); err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			for _, p := range sess.Projects() {
				liked := " "
				if sess.Liked(p.ID) {
					liked = "♥"
				}
				fmt.Fprintf(out, "%s %-14s %-28s %-10s likes=%d comments=%d\n",
					liked, p.ID, p.Title, p.Category, p.LikesCount, p.CommentsCount)
			}
		case "like":
			if len(rest) != 1 {
				fmt.Fprintln(out, "usage: like <project-id>")
				continue
			}
			if err := sess.LikeProject(rest[0]); err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			if p, ok := sess.Project(rest[0]); ok {
				fmt.Fprintf(out, "%s likes=%d liked=%v\n", p.ID, p.LikesCount, sess.Liked(p.ID))
			}
		case "comments":
			if len(rest) != 1 {
				fmt.Fprintln(out, "usage: comments <project-id>")
				continue
			}
			if err := sess.RefreshComments(rest[0]); err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			for _, c := range sess.Comments(rest[0]) {
				fmt.Fprintf(out, "[%s] %s: %s\n", c.CreatedAt, c.AuthorName, c.Content)
			}
		case "comment":
			if len(rest) < 2 {
				fmt.Fprintln(out, "usage: comment <project-id> <text...>")
				continue
			}
			name := identity.AuthorName()
			if name == "" {
				name = "匿名用户"
			}
			if _, err := sess.PostComment(rest[0], strings.Join(rest[1:], " "), name); err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			if p, ok := sess.Project(rest[0]); ok {
				fmt.Fprintf(out, "comment posted, total %d\n", p.CommentsCount)
			}
		case "insight":
			if len(rest) != 1 {
				fmt.Fprintln(out, "usage: insight <project-id>")
				continue
			}
			fmt.Fprintln(out, sess.Insight(rest[0]))
		case "discussions":
			opts := client.DiscussionListOptions{}
			if len(rest) > 0 {
				opts.Category = rest[0]
			}
			if len(rest) > 1 {
				opts.Sort = rest[1]
			}
			if err := sess.RefreshDiscussions(opts); err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			discussions := sess.Discussions()
			if len(discussions) == 0 {
				fmt.Fprintln(out, "暂无讨论")
				continue
			}
			for _, d := range discussions {
				marker := " "
				if d.IsPinned {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-14s %-32s %-8s replies=%d likes=%d views=%d\n",
					marker, d.ID, d.Title, d.Category, d.RepliesCount, d.LikesCount, d.ViewsCount)
			}
		case "post":
			if len(rest) < 2 {
				fmt.Fprintln(out, "usage: post <category> <title...>")
				continue
			}
			fmt.Fprint(out, "content> ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			content := strings.TrimSpace(scanner.Text())
			name := identity.AuthorName()
			if name == "" {
				name = "匿名用户"
			}
			d, err := sess.PostDiscussion(strings.Join(rest[1:], " "), content, rest[0], name)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintf(out, "posted %s\n", d.ID)
		case "read":
			if len(rest) != 1 {
				fmt.Fprintln(out, "usage: read <discussion-id>")
				continue
			}
			d, err := sess.SelectDiscussion(rest[0])
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintf(out, "%s by %s (%s) likes=%d views=%d\n", d.Title, d.AuthorName, d.Category, d.LikesCount, d.ViewsCount)
			if d.IsClosed {
				fmt.Fprintln(out, "[closed]")
			}
			fmt.Fprintln(out, d.Content)
			for _, r := range sess.Replies() {
				fmt.Fprintf(out, "  %s %s: %s (likes=%d)\n", r.ID, r.AuthorName, r.Content, r.LikesCount)
			}
		case "reply":
			if len(rest) < 1 {
				fmt.Fprintln(out, "usage: reply <text...>")
				continue
			}
			name := identity.AuthorName()
			if name == "" {
				name = "匿名用户"
			}
			if _, err := sess.PostReply(strings.Join(rest, " "), name, nil); err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintln(out, "reply posted")
		case "likedisc":
			if len(rest) != 1 {
				fmt.Fprintln(out, "usage: likedisc <discussion-id>")
				continue
			}
			count, err := sess.LikeDiscussion(rest[0])
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintf(out, "likes=%d\n", count)
		case "likereply":
			if len(rest) != 1 {
				fmt.Fprintln(out, "usage: likereply <reply-id>")
				continue
			}
			count, err := sess.LikeReply(rest[0])
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintf(out, "likes=%d\n", count)
		case "back":
			sess.ClearSelection()
		case "nick":
			if len(rest) < 1 {
				fmt.Fprintf(out, "nickname: %s\n", identity.AuthorName())
				continue
			}
			if err := identity.SaveAuthorName(strings.Join(rest, " ")); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		default:
			fmt.Fprintf(out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func printBrowseHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  projects [category]          list projects
  like <project-id>            toggle your like on a project
  comments <project-id>        list a project's comments
  comment <project-id> <text>  post a comment
  insight <project-id>         AI commentary on a project
  discussions [cat] [sort]     list community discussions
  post <category> <title>      start a discussion (content on the next line)
  read <discussion-id>         open a discussion and its replies
  reply <text>                 reply to the open discussion
  likedisc <discussion-id>     like a discussion
  likereply <reply-id>         like a reply in the open discussion
  back                         close the open discussion
  nick [name]                  show or set your nickname
  quit                         exit
`)
}
