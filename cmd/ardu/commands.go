package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"ardu.app/feed/controllers"
	"ardu.app/feed/models"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":     register,
	"login":        login,
	"logout":       logout,
	"whoami":       whoami,
	"profile":      profile,
	"feed":         feed,
	"mine":         mine,
	"show":         show,
	"react":        react,
	"comment":      comment,
	"share":        share,
	"upload":       upload,
	"delete":       deletePost,
	"pending":      pending,
	"approve":      decide(controllers.Approve),
	"reject":       decide(controllers.Reject),
	"approve-user": userDecision(controllers.Approve),
	"reject-user":  userDecision(controllers.Reject),
	"users":        users,
}

var errUsage = errors.New("wrong arguments, run ardu without arguments for help")

func postArg(args []string, n int) (int64, error) {
	if len(args) < n {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func register(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var req models.RegisterRequest
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.MobileNumber, "mobile", "", "mobile number")
	fs.StringVar(&req.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.ConfirmPassword = req.Password

	u, err := a.client.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s (id %d). An admin must approve the account before you can post.\n", u.Email, u.ID)
	return nil
}

func login(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	var req models.LoginRequest
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := a.saveSession(); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", resp.Name, resp.Role)
	if !a.session.Approved() {
		color.Yellow("Your account is awaiting approval.")
	}
	return nil
}

func logout(ctx context.Context, a *app, args []string) error {
	a.client.Logout()
	if err := a.session.Remove(a.sessionFile); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func whoami(ctx context.Context, a *app, args []string) error {
	s := a.session
	if !s.Authenticated() {
		fmt.Println("Not signed in")
		return nil
	}
	status := "approved"
	if !s.Approved() {
		status = "pending approval"
	}
	fmt.Printf("%s (id %d, %s, %s)\n", s.Name(), s.UserID(), s.Role(), status)
	return nil
}

func printPosts(posts []models.Post) {
	if len(posts) == 0 {
		fmt.Println("No posts")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAUTHOR\tSTATUS\tMEDIA\tREACTIONS\tCOMMENTS\tSHARES\tCAPTION")
	for _, p := range posts {
		reactions := strconv.Itoa(p.ReactionCount)
		if p.MyReaction != models.ReactionNone {
			reactions += " (" + string(p.MyReaction) + ")"
		}
		media := string(p.MediaType)
		if media == "" {
			media = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			p.ID, p.Author.Name, p.Status, media, reactions, p.CommentCount, p.ShareCount, oneLine(p.Caption))
	}
	tw.Flush()
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}

func feed(ctx context.Context, a *app, args []string) error {
	f := controllers.NewFeed(a.client, a.session, a.cfg.Client.RequestTimeout)
	if err := f.Load(ctx); err != nil {
		return err
	}
	defer f.Unmount()
	printPosts(cardPosts(f))
	return nil
}

func mine(ctx context.Context, a *app, args []string) error {
	f := controllers.NewFeed(a.client, a.session, a.cfg.Client.RequestTimeout)
	if err := f.LoadMine(ctx); err != nil {
		return err
	}
	defer f.Unmount()
	printPosts(cardPosts(f))
	return nil
}

func cardPosts(f *controllers.Feed) []models.Post {
	var posts []models.Post
	for _, c := range f.Cards() {
		posts = append(posts, c.Post)
	}
	return posts
}

// card loads one post and mounts its controllers.
func card(ctx context.Context, a *app, postID int64) (*controllers.PostCard, error) {
	p, err := a.client.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return controllers.NewPostCard(a.client, a.session, p, a.cfg.Client.RequestTimeout), nil
}

func show(ctx context.Context, a *app, args []string) error {
	id, err := postArg(args, 1)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	withComments := fs.Bool("comments", false, "list comments")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	c, err := card(ctx, a, id)
	if err != nil {
		return err
	}
	defer c.Unmount()
	printPosts([]models.Post{c.Post})
	if c.Post.MediaURL != "" {
		fmt.Printf("\n%s: %s\n", c.Post.MediaType, c.Post.MediaURL)
	}

	if *withComments {
		if err := c.Comments.Load(ctx, 0, 50); err != nil {
			return err
		}
		fmt.Println()
		for _, cm := range c.Comments.State().Comments {
			fmt.Printf("%s  %s\n", color.CyanString(cm.AuthorName), cm.Text)
		}
	}
	return nil
}

func react(ctx context.Context, a *app, args []string) error {
	id, err := postArg(args, 2)
	if err != nil {
		return err
	}
	r, err := models.ParseReaction(args[1])
	if err != nil {
		return err
	}
	c, err := card(ctx, a, id)
	if err != nil {
		return err
	}
	defer c.Unmount()

	if err := c.Reactions.SetReaction(ctx, r); err != nil {
		return err
	}
	st := c.Reactions.State()
	if st.Current == models.ReactionNone {
		fmt.Printf("No reaction on post %d (%d total)\n", id, st.Count)
	} else {
		fmt.Printf("Reacted %s on post %d (%d total)\n", st.Current, id, st.Count)
	}
	return nil
}

func comment(ctx context.Context, a *app, args []string) error {
	id, err := postArg(args, 2)
	if err != nil {
		return err
	}
	c, err := card(ctx, a, id)
	if err != nil {
		return err
	}
	defer c.Unmount()

	c.Comments.SetDraft(strings.Join(args[1:], " "))
	if err := c.Comments.SubmitDraft(ctx); err != nil {
		return err
	}
	fmt.Printf("Commented on post %d (%d comments)\n", id, c.Comments.State().Count)
	return nil
}

func share(ctx context.Context, a *app, args []string) error {
	id, err := postArg(args, 1)
	if err != nil {
		return err
	}
	c, err := card(ctx, a, id)
	if err != nil {
		return err
	}
	defer c.Unmount()

	if err := c.Shares.Share(ctx); err != nil {
		return err
	}
	fmt.Printf("Shared post %d (%d shares)\n", id, c.Shares.State().Count)
	return nil
}

func upload(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	var req models.PostRequest
	fs.StringVar(&req.Caption, "caption", "", "caption")
	fs.StringVar(&req.MediaURL, "media", "", "URL of an uploaded image or video")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.client.CreatePost(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Post %d submitted for review\n", p.ID)
	return nil
}

func deletePost(ctx context.Context, a *app, args []string) error {
	id, err := postArg(args, 1)
	if err != nil {
		return err
	}
	f := controllers.NewFeed(a.client, a.session, a.cfg.Client.RequestTimeout)
	if err := f.LoadMine(ctx); err != nil {
		return err
	}
	defer f.Unmount()
	if err := f.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted post %d\n", id)
	return nil
}

func pending(ctx context.Context, a *app, args []string) error {
	m := controllers.NewModerationController(a.client, a.session, a.cfg.Client.RequestTimeout)
	if err := m.Load(ctx); err != nil {
		return err
	}
	var posts []models.Post
	for _, row := range m.State().Rows {
		posts = append(posts, row.Post)
	}
	printPosts(posts)
	return nil
}

func decide(d controllers.Decision) command {
	return func(ctx context.Context, a *app, args []string) error {
		id, err := postArg(args, 1)
		if err != nil {
			return err
		}
		m := controllers.NewModerationController(a.client, a.session, a.cfg.Client.RequestTimeout)
		if err := m.Load(ctx); err != nil {
			return err
		}
		if err := m.Decide(ctx, id, d); err != nil {
			return err
		}
		fmt.Printf("Post %d: %sd\n", id, d)
		return nil
	}
}

func userDecision(d controllers.Decision) command {
	return func(ctx context.Context, a *app, args []string) error {
		id, err := postArg(args, 1)
		if err != nil {
			return err
		}
		if !a.session.IsAdmin() {
			return controllers.ErrForbidden
		}
		if d == controllers.Reject {
			err = a.client.RejectUser(ctx, id)
		} else {
			err = a.client.ApproveUser(ctx, id)
		}
		if err != nil {
			return err
		}
		fmt.Printf("User %d %sd\n", id, d)
		return nil
	}
}

func users(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	status := fs.String("status", string(models.ApprovalPending), "pending|approved|rejected, empty for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.session.IsAdmin() {
		return controllers.ErrForbidden
	}

	list, err := a.client.ListUsers(ctx, models.ApprovalStatus(*status))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No users")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS\tJOINED")
	for _, u := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, u.Email, u.Role, u.Approval, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func profile(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var req models.UserUpdateRequest
	userID := fs.Int64("user", 0, "user to edit (admins only), defaults to you")
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Username, "username", "", "username")
	fs.StringVar(&req.MobileNumber, "mobile", "", "mobile number")
	fs.StringVar(&req.AvatarURL, "avatar", "", "profile image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		return controllers.ErrNotSignedIn
	}
	id := *userID
	if id == 0 {
		id = a.session.UserID()
	}

	if req.Empty() {
		u, err := a.client.GetUser(ctx, id)
		if err != nil {
			return err
		}
		printUser(u)
		return nil
	}
	u, err := a.client.UpdateUser(ctx, id, req)
	if err != nil {
		return err
	}
	printUser(u)
	return nil
}

func printUser(u models.User) {
	fmt.Printf("%s (id %d)\n", u.Name, u.ID)
	fmt.Printf("  email:    %s\n", u.Email)
	if u.Username != "" {
		fmt.Printf("  username: %s\n", u.Username)
	}
	if u.MobileNumber != "" {
		fmt.Printf("  mobile:   %s\n", u.MobileNumber)
	}
	if u.AvatarURL != "" {
		fmt.Printf("  avatar:   %s\n", u.AvatarURL)
	}
	fmt.Printf("  role:     %s, %s\n", u.Role, u.Approval)
}
