package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/logger"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/session"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // plain list grouped by pending/done
}

// Runner holds the wired dependencies for every subcommand.
type Runner struct {
	client *api.Client
	log    *logger.Logger
}

func New(client *api.Client, log *logger.Logger) *Runner {
	return &Runner{client: client, log: log}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return r.doInteractive()

	case "list":
		return r.doList(opt)

	case "today":
		return r.doToday()

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: taskdeck add [-priority p] [-category c] [-due date] [-desc text] <title...>")
			return 2
		}
		return r.doAdd(a)

	case "edit":
		if len(a) == 0 {
			ui.Fail("usage: taskdeck edit <index> [-title t] [-desc text] [-priority p] [-category c] [-due date]")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("edit: not a number: " + a[0])
			return 2
		}
		return r.doEdit(n, a[1:])

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck done <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("done: not a number: " + a[0])
			return 2
		}
		return r.doToggle(n)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("rm: not a number: " + a[0])
			return 2
		}
		return r.doRemove(n)

	case "show":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck show <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("show: not a number: " + a[0])
			return 2
		}
		return r.doShow(n)

	case "dashboard":
		switch {
		case len(a) == 0:
			return r.doDashboard()
		case len(a) == 1 && a[0] == "analytics":
			return r.doAnalytics()
		default:
			ui.Fail("usage: taskdeck dashboard [analytics]")
			return 2
		}

	case "categories":
		return r.doCategories()

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: taskdeck auth <login|logout|register|status|whoami|verify-email>")
			return 2
		}
		switch a[0] {
		case "login":
			return r.doAuthLogin()
		case "logout":
			return r.doAuthLogout()
		case "register":
			return r.doAuthRegister()
		case "status":
			return r.doAuthStatus()
		case "whoami":
			return r.doAuthWhoAmI()
		case "verify-email":
			if len(a) != 2 {
				ui.Fail("usage: taskdeck auth verify-email <token>")
				return 2
			}
			return r.doAuthVerifyEmail(a[1])
		default:
			ui.Fail("usage: taskdeck auth <login|logout|register|status|whoami|verify-email>")
			return 2
		}

	case "forgot-password":
		if len(a) != 1 {
			ui.Fail("usage: taskdeck forgot-password <email>")
			return 2
		}
		return r.doForgotPassword(a[0])
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskdeck - terminal client for your task board

Usage:
  taskdeck <subcommand> [args]

Subcommands:
  ls                   Interactive task list (TUI)
  list                 Plain task list (use -group to split pending/done)
  today                Tasks created today
  add [flags] <title...>
                       Create a task; flags: -priority, -category, -due, -desc
  edit <index> [flags] Change task fields; flags: -title, -desc, -priority,
                       -category, -due (only the flags you pass are changed)
  done <index>         Toggle completion for task at 1-based index
  rm <index>           Delete task at 1-based index
  show <index>         Show full task details
  dashboard            Stats and recent tasks
  dashboard analytics  Completion trend, category and priority charts
  categories           Tasks grouped by category
  auth <login|logout|register|status|whoami|verify-email>   Session management
  forgot-password <email>                                   Request a password reset

Examples:
  taskdeck auth login
  taskdeck add -priority high -due 2026-09-01 "Buy milk"
  taskdeck edit 2 -category Work
  taskdeck ls
  taskdeck done 2
`)
}

// ensureAuth resolves the current token or explains how to get one.
func (r *Runner) ensureAuth() (string, int) {
	ti, err := session.GetToken()
	if err != nil {
		ui.Fail("credentials: " + err.Error())
		return "", 1
	}
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		ui.Fail("not logged in. Set " + session.EnvToken + " or run `taskdeck auth login`")
		return "", 2
	}
	if ti.Expired(time.Now()) {
		ui.Fail("session expired. Run `taskdeck auth login`")
		return "", 2
	}
	return ti.Token, 0
}

// ---------------------------------------------------
// Task subcommands (remote CRUD)
// ---------------------------------------------------

func (r *Runner) doInteractive() int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	if err := ui.RunTaskList(context.Background(), r.client, token); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *Runner) doList(opt Options) int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	tasks, err := r.client.ListTodos(context.Background(), token)
	if err != nil {
		r.log.Errorw("list failed", "error", err)
		ui.Fail("list: " + err.Error())
		return 1
	}
	if opt.Group {
		ui.Panel(groupLines(tasks))
	} else {
		ui.Panel(flatLines(tasks, nil))
	}
	return 0
}

func (r *Runner) doToday() int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	tasks, err := r.client.TodayTodos(context.Background(), token)
	if err != nil {
		r.log.Errorw("today failed", "error", err)
		ui.Fail("today: " + err.Error())
		return 1
	}
	lines := []string{ui.Current().Accent.Render("Today")}
	lines = append(lines, flatLines(tasks, nil)...)
	ui.Panel(lines)
	return 0
}

func (r *Runner) doAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	desc := fs.String("desc", "", "description")
	prio := fs.String("priority", "", "low, medium or high")
	cat := fs.String("category", "", "category (server default: "+model.DefaultCategory+")")
	due := fs.String("due", "", `due date, "2006-01-02" or "2006-01-02 15:04"`)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		ui.Fail("usage: taskdeck add [-priority p] [-category c] [-due date] [-desc text] <title...>")
		return 2
	}
	in := model.TaskCreate{Title: title, Category: *cat}
	if *desc != "" {
		in.Description = desc
	}
	if *prio != "" {
		in.Priority = model.Priority(*prio)
	}
	if *due != "" {
		d, err := parseDue(*due)
		if err != nil {
			ui.Fail("add: " + err.Error())
			return 2
		}
		in.DueDate = d
	}

	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	task, err := r.client.CreateTodo(context.Background(), token, in)
	if err != nil {
		r.log.Errorw("create failed", "error", err)
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK("added " + task.ID)
	return 0
}

// doEdit applies a partial update built from the flags that were actually
// passed, so `edit 2 -desc ""` clears the description while every other
// field keeps its server value.
func (r *Runner) doEdit(userIndex int, args []string) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description (empty clears it)")
	prio := fs.String("priority", "", "low, medium or high")
	cat := fs.String("category", "", "new category")
	due := fs.String("due", "", `new due date, "2006-01-02" or "2006-01-02 15:04"`)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var upd model.TaskUpdate
	var dueErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			upd.Title = title
		case "desc":
			upd.Description = desc
		case "priority":
			p := model.Priority(*prio)
			upd.Priority = &p
		case "category":
			upd.Category = cat
		case "due":
			upd.DueDate, dueErr = parseDue(*due)
		}
	})
	if dueErr != nil {
		ui.Fail("edit: " + dueErr.Error())
		return 2
	}
	if upd.IsZero() {
		ui.Fail("edit: nothing to change (pass at least one flag)")
		return 2
	}

	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	ctx := context.Background()
	task, code := r.taskAt(ctx, token, userIndex)
	if code != 0 {
		return code
	}
	if _, err := r.client.UpdateTodo(ctx, token, task.ID, upd); err != nil {
		r.log.Errorw("edit failed", "id", task.ID, "error", err)
		ui.Fail("edit: " + err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

// parseDue accepts a date or a date with time, interpreted in local time.
func parseDue(s string) (*time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if d, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf(`bad due date %q (want "2006-01-02" or "2006-01-02 15:04")`, s)
}

func (r *Runner) doToggle(userIndex int) int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	ctx := context.Background()
	task, code := r.taskAt(ctx, token, userIndex)
	if code != 0 {
		return code
	}
	next := !task.Completed
	if _, err := r.client.UpdateTodo(ctx, token, task.ID, model.TaskUpdate{Completed: &next}); err != nil {
		r.log.Errorw("toggle failed", "id", task.ID, "error", err)
		ui.Fail("done: " + err.Error())
		return 1
	}
	ui.OK("toggled")
	return 0
}

func (r *Runner) doRemove(userIndex int) int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	ctx := context.Background()
	task, code := r.taskAt(ctx, token, userIndex)
	if code != 0 {
		return code
	}
	if _, err := r.client.DeleteTodo(ctx, token, task.ID); err != nil {
		r.log.Errorw("delete failed", "id", task.ID, "error", err)
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func (r *Runner) doShow(userIndex int) int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	ctx := context.Background()
	task, code := r.taskAt(ctx, token, userIndex)
	if code != 0 {
		return code
	}
	// refetch the single item so we show server truth, not list-time state
	task, err := r.client.GetTodo(ctx, token, task.ID)
	if err != nil {
		ui.Fail("show: " + err.Error())
		return 1
	}
	ui.Panel(detailLines(task))
	return 0
}

// taskAt resolves a 1-based index against the current list.
func (r *Runner) taskAt(ctx context.Context, token string, userIndex int) (model.Task, int) {
	tasks, err := r.client.ListTodos(ctx, token)
	if err != nil {
		ui.Fail("load: " + err.Error())
		return model.Task{}, 1
	}
	if userIndex < 1 || userIndex > len(tasks) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(tasks), userIndex))
		fmt.Fprintln(os.Stderr, ui.Current().Muted.Render("Hint: run `taskdeck list` to see valid indexes"))
		return model.Task{}, 2
	}
	return tasks[userIndex-1], 0
}

// ---------------------------------------------------
// Dashboard subcommands
// ---------------------------------------------------

func (r *Runner) doDashboard() int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	ctx := context.Background()
	stats, err := r.client.DashboardStats(ctx, token)
	if err != nil {
		r.log.Errorw("stats failed", "error", err)
		ui.Fail("dashboard: " + err.Error())
		return 1
	}
	recent, err := r.client.RecentTasks(ctx, token, 10)
	if err != nil {
		r.log.Errorw("recent tasks failed", "error", err)
		ui.Fail("dashboard: " + err.Error())
		return 1
	}
	ui.Panel(dashboardLines(stats, recent))
	return 0
}

func (r *Runner) doAnalytics() int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	charts, err := r.client.Analytics(context.Background(), token)
	if err != nil {
		r.log.Errorw("analytics failed", "error", err)
		ui.Fail("analytics: " + err.Error())
		return 1
	}
	ui.Panel(analyticsLines(charts))
	return 0
}

func (r *Runner) doCategories() int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	grouped, err := r.client.TasksByCategory(context.Background(), token)
	if err != nil {
		r.log.Errorw("categories failed", "error", err)
		ui.Fail("categories: " + err.Error())
		return 1
	}
	ui.Panel(categoryLines(grouped))
	return 0
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func (r *Runner) doAuthLogin() int {
	var creds model.Credentials
	fmt.Print("Email: ")
	if _, err := fmt.Scanln(&creds.Email); err != nil {
		ui.Fail("read email: " + err.Error())
		return 1
	}
	fmt.Print("Password: ")
	if _, err := fmt.Scanln(&creds.Password); err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}

	res := r.client.SignIn(context.Background(), creds)
	if !res.OK() {
		ui.Fail(res.Failure.Message)
		return 1
	}
	if err := session.SetToken(res.Token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	name := ""
	if res.User != nil {
		name = " as " + res.User.Name
	}
	ui.OK("logged in" + name)
	return 0
}

func (r *Runner) doAuthRegister() int {
	var reg model.Registration
	fmt.Print("Name: ")
	if _, err := fmt.Scanln(&reg.Name); err != nil {
		ui.Fail("read name: " + err.Error())
		return 1
	}
	fmt.Print("Email: ")
	if _, err := fmt.Scanln(&reg.Email); err != nil {
		ui.Fail("read email: " + err.Error())
		return 1
	}
	if !r.client.CheckEmail(context.Background(), reg.Email) {
		ui.Fail("a user with this email already exists")
		return 1
	}
	fmt.Print("Password: ")
	if _, err := fmt.Scanln(&reg.Password); err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}
	fmt.Print("Confirm password: ")
	if _, err := fmt.Scanln(&reg.ConfirmPassword); err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}
	reg.AgreeToTerms = true // CLI use implies agreement; the hosted form asks explicitly

	res := r.client.SignUp(context.Background(), reg)
	if !res.OK() {
		if res.Failure.Field != "" {
			ui.Fail(res.Failure.Field + ": " + res.Failure.Message)
		} else {
			ui.Fail(res.Failure.Message)
		}
		return 1
	}
	if err := session.SetToken(res.Token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("registered and logged in")
	return 0
}

func (r *Runner) doAuthLogout() int {
	ti, _ := session.GetToken()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + session.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := session.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func (r *Runner) doAuthStatus() int {
	ti, _ := session.GetToken()
	if ti == nil {
		fmt.Println(ui.Current().Muted.Render("not logged in"))
		fmt.Println("Run: taskdeck auth login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Printf("expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
		if ti.Expired(time.Now()) {
			fmt.Println(ui.Current().Error.Render("expired"))
		}
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + session.EnvToken)
	return 0
}

// whoami asks the server for the profile; when unreachable, falls back to
// whatever the token itself says.
func (r *Runner) doAuthWhoAmI() int {
	token, code := r.ensureAuth()
	if code != 0 {
		return code
	}
	user, err := r.client.Profile(context.Background(), token)
	if err == nil {
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		return 0
	}
	r.log.Debugw("profile fetch failed, using local claims", "error", err)
	if claims := session.Claims(token); claims != nil {
		if email, ok := claims["email"].(string); ok {
			fmt.Println(email, ui.Current().Muted.Render("(from token; server unreachable)"))
			return 0
		}
	}
	ui.Fail("whoami: " + err.Error())
	return 1
}

// doAuthVerifyEmail redeems the token from the verification email. The
// endpoint is unauthenticated; the token itself is the proof.
func (r *Runner) doAuthVerifyEmail(verificationToken string) int {
	if err := r.client.VerifyEmail(context.Background(), verificationToken); err != nil {
		ui.Fail("verify-email: " + err.Error())
		return 1
	}
	ui.OK("email verified")
	return 0
}

func (r *Runner) doForgotPassword(email string) int {
	if err := r.client.ForgotPassword(context.Background(), email); err != nil {
		ui.Fail("forgot-password: " + err.Error())
		return 1
	}
	ui.OK("reset email sent to " + email)
	return 0
}
