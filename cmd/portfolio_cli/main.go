package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"asteca_portfolio/internal/client/admin"
	"asteca_portfolio/internal/client/api"
	"asteca_portfolio/internal/client/catalog"
	"asteca_portfolio/internal/client/contact"
	"asteca_portfolio/internal/client/render"
	"asteca_portfolio/internal/client/session"
	"asteca_portfolio/internal/client/shell"
	"asteca_portfolio/internal/config"
	"asteca_portfolio/internal/domain/models"
	"asteca_portfolio/internal/lib/logger/sl"

	"github.com/google/uuid"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const helpText = `Commands:
  go home|portfolio|contact|admin   switch page
  filter all|design|video|links     filter portfolio by category
  retry                             reload portfolio after an error
  open <id>                         open a portfolio item
  login <username> <password>       admin login
  logout                            admin logout
  tab upload|manage                 switch admin tab
  type image|video|link             choose item type for upload
  set <field> <value>               set a form field (admin draft or contact form)
  file <path> | nofile              choose or remove the file to upload
  submit                            upload the drafted item
  cancel                            clear the draft
  delete <id>                       delete an item
  edit <id> | save | unedit         stage an item for editing
  reload                            reload admin data
  send                              send the contact form
  quit`

type cli struct {
	log     *slog.Logger
	in      *bufio.Scanner
	out     io.Writer
	shell   *shell.Shell
	catalog *catalog.View
	contact *contact.Form
	admin   *admin.Workflow
}

func main() {
	var (
		configPath string
		debug      bool
	)
	flag.StringVar(&configPath, "config", os.Getenv("PORTFOLIO_CONFIG"), "path to client config file")
	flag.BoolVar(&debug, "debug", false, "log to stderr")
	flag.Parse()

	cfg, err := config.LoadClient(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := setupLogger(cfg.Env, debug)

	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store := session.NewStore(log, client, session.NewFileStore(cfg.SessionFile))
	client.SetTokenSource(store)

	c := &cli{
		log: log,
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
	}

	c.catalog = catalog.New(catalog.Options{
		Log:      log,
		API:      client,
		Resolver: client,
	})
	c.contact = contact.New(log, client)
	c.admin = admin.New(admin.Options{
		Log:       log,
		API:       client,
		Sessions:  store,
		Confirm:   c.confirm,
		BannerTTL: cfg.BannerTTL,
	})

	c.shell, err = shell.New(shell.Deps{
		Log:     log,
		Catalog: c.catalog,
		Contact: c.contact,
		Admin:   c.admin,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.shell.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	c.navigate(ctx, shell.PageHome)
	c.run(ctx)
}

// setupLogger логи идут в stderr, stdout занят интерфейсом.
// Локально клиент молчит, пока не передан -debug.
func setupLogger(env string, debug bool) *slog.Logger {
	if debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func (c *cli) run(ctx context.Context) {
	for {
		fmt.Fprintf(c.out, "%s> ", c.shell.Current())
		if !c.in.Scan() {
			return
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			c.show()
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		if err := c.exec(ctx, line); err != nil {
			c.report(err)
		}
		if ctx.Err() != nil {
			return
		}
		c.show()
	}
}

func (c *cli) exec(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "help":
		fmt.Fprintln(c.out, helpText)
		return nil
	case "go":
		c.navigate(ctx, shell.ParsePage(rest))
		return nil
	case "home", "portfolio", "contact", "admin":
		c.navigate(ctx, shell.ParsePage(cmd))
		return nil
	case "filter":
		return c.catalog.SelectCategory(models.Category(rest))
	case "retry":
		return c.catalog.Retry(ctx)
	case "open":
		return c.open(ctx, rest)
	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <username> <password>")
		}
		c.ensurePage(ctx, shell.PageAdmin)
		return c.admin.SubmitLogin(ctx, args[0], args[1])
	case "logout":
		return c.admin.Logout(ctx)
	case "tab":
		if rest == admin.TabManage.String() {
			return c.admin.SwitchTab(admin.TabManage)
		}
		return c.admin.SwitchTab(admin.TabUpload)
	case "type":
		return c.admin.SelectType(models.ItemType(rest))
	case "set":
		name, value, _ := strings.Cut(rest, " ")
		if c.shell.Current() == shell.PageContact {
			return c.contact.SetField(name, strings.TrimSpace(value))
		}
		return c.admin.SetField(name, strings.TrimSpace(value))
	case "file":
		return c.admin.SelectFile(rest)
	case "nofile":
		c.admin.RemoveFile()
		return nil
	case "submit":
		return c.admin.Submit(ctx)
	case "cancel":
		c.admin.CancelDraft()
		return nil
	case "delete":
		id, err := uuid.Parse(rest)
		if err != nil {
			return fmt.Errorf("invalid id %q", rest)
		}
		return c.admin.Delete(ctx, id)
	case "edit":
		id, err := uuid.Parse(rest)
		if err != nil {
			return fmt.Errorf("invalid id %q", rest)
		}
		return c.admin.Edit(id)
	case "save":
		return c.admin.SaveEdit(ctx)
	case "unedit":
		c.admin.CancelEdit()
		return nil
	case "reload":
		return c.admin.Reload(ctx)
	case "send":
		return c.contact.Submit(ctx)
	}

	return fmt.Errorf("unknown command %q, type 'help'", cmd)
}

func (c *cli) navigate(ctx context.Context, page shell.Page) {
	if _, err := c.shell.Navigate(ctx, page); err != nil {
		// экран уже показывает ошибку
		c.log.Debug("page mounted with error", slog.String("page", string(page)), sl.Err(err))
	}
}

func (c *cli) ensurePage(ctx context.Context, page shell.Page) {
	if c.shell.Current() != page {
		c.navigate(ctx, page)
	}
}

func (c *cli) open(ctx context.Context, raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}

	preview, err := c.catalog.Open(ctx, id)
	if err != nil {
		return err
	}
	if preview.Kind == models.ItemTypeLink {
		fmt.Fprintln(c.out, "Opened in browser.")
		return nil
	}

	render.Preview(c.out, preview)
	return nil
}

func (c *cli) confirm(item models.PortfolioItem) bool {
	fmt.Fprintf(c.out, "Delete %q? [y/N] ", item.Title)
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes"
}

func (c *cli) report(err error) {
	var verr *api.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(c.out, api.Message(err))
	case errors.Is(err, admin.ErrCancelled):
	case errors.Is(err, admin.ErrNotImplemented):
		fmt.Fprintln(c.out, "Editing is not available yet.")
	default:
		// ошибки запросов уже отражены баннером или состоянием экрана
		c.log.Debug("command failed", sl.Err(err))
		if !isRequestError(err) {
			fmt.Fprintln(c.out, err)
		}
	}
}

func isRequestError(err error) bool {
	var herr *api.HTTPError
	return errors.As(err, &herr) || api.IsNetworkError(err)
}

func (c *cli) show() {
	switch c.shell.Current() {
	case shell.PagePortfolio:
		render.Catalog(c.out, c.catalog.Snapshot())
	case shell.PageContact:
		render.Contact(c.out, c.contact.Snapshot())
	case shell.PageAdmin:
		render.Admin(c.out, c.admin.Snapshot())
	default:
		render.Home(c.out)
	}
}
