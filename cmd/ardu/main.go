// Command ardu is a terminal client for the ARDU feed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"ardu.app/feed/client"
	"ardu.app/feed/config"
	"ardu.app/feed/log"
	"ardu.app/feed/session"
)

const usage = `usage: ardu [-api URL] [-timeout 10s] [-v] <command> [args]

account:
  register -name N -email E -mobile M -password P
  login -email E -password P
  logout
  whoami
  profile [-user U] [-name N] [-username U] [-mobile M] [-avatar URL]

feed:
  feed                      approved posts
  mine                      your posts, pending ones included
  show <post> [-comments]   one post
  react <post> <reaction>   like|love|haha|wow|sad|angry|none; repeating your reaction clears it
  comment <post> <text>
  share <post>
  upload -caption C [-media URL]
  delete <post>

admin:
  pending
  approve <post>
  reject <post>
  users [-status pending|approved|rejected]
  approve-user <user>
  reject-user <user>
`

// app is shared by every command.
type app struct {
	cfg         *config.Config
	client      *client.Client
	session     *session.Session
	sessionFile string
}

func (a *app) saveSession() error {
	return a.session.Save(a.sessionFile)
}

func main() {
	cfg := config.Load()

	global := flag.NewFlagSet("ardu", flag.ExitOnError)
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	apiURL := global.String("api", cfg.Client.APIURL, "ARDU API base URL")
	timeout := global.Duration("timeout", cfg.Client.RequestTimeout, "per-request timeout")
	verbose := global.Bool("v", false, "log requests")
	global.Parse(os.Args[1:])

	if !*verbose {
		log.Discard()
	}
	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	sess, err := session.Load(cfg.Client.SessionFile)
	if errors.Is(err, session.ErrNoSession) {
		sess = session.New()
	} else if err != nil {
		fail(err)
	}

	a := &app{
		cfg:         cfg,
		session:     sess,
		client:      client.New(*apiURL, sess, client.WithTimeout(*timeout)),
		sessionFile: cfg.Client.SessionFile,
	}
	a.cfg.Client.RequestTimeout = *timeout

	cmd, args := global.Arg(0), global.Args()[1:]
	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := run(ctx, a, args); err != nil {
		cancel()
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), client.Message(err))
	os.Exit(1)
}
