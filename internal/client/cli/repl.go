// Package cli implements the interactive catalog console. It is the
// view layer: it renders state snapshots, routes commands into async
// intents, and gates privileged commands on the session role before
// the server is ever asked.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/electrodrive/catalog-api/internal/client/actions"
	"github.com/electrodrive/catalog-api/internal/client/state"
	"github.com/electrodrive/catalog-api/internal/models"
)

type REPL struct {
	actions *actions.Actions
	store   *state.Store
	in      *bufio.Reader
	out     io.Writer
	logger  *logrus.Logger
}

func NewREPL(acts *actions.Actions, store *state.Store, in io.Reader, out io.Writer, logger *logrus.Logger) *REPL {
	return &REPL{
		actions: acts,
		store:   store,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}
}

// Run checks the persisted session and enters the command loop.
func (r *REPL) Run(ctx context.Context) error {
	// Surface notifications as they arrive, then dismiss them so they
	// render once.
	unsubscribe := r.store.Subscribe(func(s state.State) {
		for _, n := range s.UI.Notifications {
			fmt.Fprintf(r.out, "[%s] %s\n", n.Level, n.Message)
			r.store.Dispatch(state.DismissNotification{ID: n.ID})
		}
	})
	defer unsubscribe()

	if err := r.actions.CheckAuth(ctx); err == nil {
		if user := r.store.GetState().Auth.User; user != nil {
			fmt.Fprintf(r.out, "logged in as %s (%s)\n", user.Username, user.Role)
		}
	}

	fmt.Fprintln(r.out, `type "help" for commands`)
	for {
		fmt.Fprint(r.out, r.prompt())
		line, err := r.in.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		r.execute(ctx, fields[0], fields[1:])
	}
}

func (r *REPL) prompt() string {
	auth := r.store.GetState().Auth
	if auth.Status == state.StatusAuthenticated && auth.User != nil {
		return auth.User.Username + "> "
	}
	return "> "
}

func (r *REPL) execute(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		r.printHelp()
	case "register":
		r.register(ctx)
	case "login":
		r.login(ctx)
	case "logout":
		if r.requireAuth() {
			_ = r.actions.Logout(ctx)
		}
	case "whoami", "me":
		r.whoami()
	case "create-admin":
		if r.requireRole(models.RoleAdmin) {
			r.createAdmin(ctx)
		}
	case "list":
		if err := r.actions.FetchMotors(ctx); err == nil {
			r.printCatalog()
		} else {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	case "get":
		r.get(ctx, args)
	case "search":
		r.search(ctx, args)
	case "find":
		// debounced variant, mirrors live search input
		r.actions.SetSearch(ctx, strings.Join(args, " "))
	case "page":
		r.setPage(ctx, args)
	case "limit":
		r.setLimit(ctx, args)
	case "filter":
		r.filter(ctx, args)
	case "create":
		if r.requireRole(models.RoleAdmin, models.RoleEditor) {
			r.create(ctx)
		}
	case "update":
		if r.requireRole(models.RoleAdmin, models.RoleEditor) {
			r.update(ctx, args)
		}
	case "delete":
		if r.requireRole(models.RoleAdmin) {
			r.delete(ctx, args)
		}
	case "upload":
		if r.requireRole(models.RoleAdmin, models.RoleEditor) {
			r.upload(ctx, args)
		}
	case "rm-image":
		if r.requireRole(models.RoleAdmin, models.RoleEditor) {
			r.removeImage(ctx, args)
		}
	case "theme":
		r.store.Dispatch(state.ToggleDarkMode{})
		if r.store.GetState().UI.DarkMode {
			fmt.Fprintln(r.out, "dark mode on")
		} else {
			fmt.Fprintln(r.out, "dark mode off")
		}
	default:
		fmt.Fprintf(r.out, "unknown command %q, type \"help\"\n", cmd)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `commands:
  register                 create an account and log in
  login                    log in with email and password
  logout                   end the session
  whoami                   show the current identity
  create-admin             create an admin account (admin only)
  list                     list motors with current filters and page
  get <id>                 show one motor
  search <keyword>         full-text search across name/model/description
  find <keyword>           live search (debounced)
  page <n>                 go to page n
  limit <n>                set page size
  filter search <s> | minpower <n> | maxpower <n> | available <bool> | reset
  create                   create a motor (editor/admin)
  update <id>              update a motor (editor/admin)
  delete <id>              delete a motor (admin)
  upload <path>            upload an image (editor/admin)
  rm-image <name>          delete an uploaded image (editor/admin)
  theme                    toggle dark mode
  exit
`)
}

// requireAuth gates a command on having a session at all.
func (r *REPL) requireAuth() bool {
	auth := r.store.GetState().Auth
	if auth.Status != state.StatusAuthenticated || auth.User == nil {
		fmt.Fprintln(r.out, "please log in first")
		return false
	}
	return true
}

// requireRole gates a command on the session role, mirroring the
// server-side check so the user gets immediate feedback.
func (r *REPL) requireRole(roles ...models.Role) bool {
	if !r.requireAuth() {
		return false
	}
	role := r.store.GetState().Auth.User.Role
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	fmt.Fprintf(r.out, "role %s is not allowed to run this command\n", role)
	return false
}

func (r *REPL) readLine(label string) string {
	fmt.Fprintf(r.out, "%s: ", label)
	line, err := r.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// readPassword reads without echo when attached to a terminal.
func (r *REPL) readPassword(label string) string {
	fmt.Fprintf(r.out, "%s: ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(r.out)
		if err != nil {
			return ""
		}
		return string(data)
	}
	line, err := r.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (r *REPL) register(ctx context.Context) {
	username := r.readLine("username")
	email := r.readLine("email")
	password := r.readPassword("password")
	_ = r.actions.Register(ctx, username, email, password)
}

func (r *REPL) login(ctx context.Context) {
	email := r.readLine("email")
	password := r.readPassword("password")
	_ = r.actions.Login(ctx, email, password)
}

func (r *REPL) whoami() {
	auth := r.store.GetState().Auth
	if auth.Status != state.StatusAuthenticated || auth.User == nil {
		fmt.Fprintln(r.out, "not logged in")
		return
	}
	fmt.Fprintf(r.out, "%s <%s> role=%s\n", auth.User.Username, auth.User.Email, auth.User.Role)
}

func (r *REPL) createAdmin(ctx context.Context) {
	username := r.readLine("username")
	email := r.readLine("email")
	password := r.readPassword("password")
	_, _ = r.actions.CreateAdmin(ctx, username, email, password)
}

func (r *REPL) printCatalog() {
	catalog := r.store.GetState().Catalog
	for i := range catalog.Motors {
		m := &catalog.Motors[i]
		availability := "available"
		if !m.Available {
			availability = "unavailable"
		}
		fmt.Fprintf(r.out, "%s  %-24s %-12s %6.1f kW  %s\n", m.ID, m.Name, m.Model, m.Power, availability)
	}
	fmt.Fprintf(r.out, "page %d/%d, %d total\n",
		catalog.Pagination.Page, catalog.Pagination.Pages, catalog.Total)
}

func (r *REPL) get(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: get <id>")
		return
	}
	if err := r.actions.FetchMotor(ctx, args[0]); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	m := r.store.GetState().Catalog.MotorDetails
	if m == nil {
		return
	}
	fmt.Fprintf(r.out, "%s %s\n%s\npower=%.1fkW voltage=%.0fV current=%.1fA speed=%.0frpm weight=%.1fkg\nprice=%.2f available=%v\n",
		m.Name, m.Model, m.Description, m.Power, m.Voltage, m.Current, m.Speed, m.Weight, m.Price, m.Available)
	if len(m.Images) > 0 {
		fmt.Fprintf(r.out, "images: %s\n", strings.Join(m.Images, ", "))
	}
}

func (r *REPL) search(ctx context.Context, args []string) {
	keyword := strings.Join(args, " ")
	motors, err := r.actions.SearchMotors(ctx, keyword)
	if err != nil {
		return
	}
	for i := range motors {
		fmt.Fprintf(r.out, "%s  %s %s\n", motors[i].ID, motors[i].Name, motors[i].Model)
	}
	fmt.Fprintf(r.out, "%d result(s)\n", len(motors))
}

func (r *REPL) setPage(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: page <n>")
		return
	}
	page, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "page must be a number")
		return
	}
	if r.actions.SetPage(ctx, page) == nil {
		r.printCatalog()
	}
}

func (r *REPL) setLimit(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: limit <n>")
		return
	}
	limit, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "limit must be a number")
		return
	}
	if r.actions.SetLimit(ctx, limit) == nil {
		r.printCatalog()
	}
}

func (r *REPL) filter(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "usage: filter search <s> | minpower <n> | maxpower <n> | available <bool> | reset")
		return
	}

	var err error
	switch args[0] {
	case "reset":
		err = r.actions.ResetFilters(ctx)
	case "search":
		r.actions.SetSearch(ctx, strings.Join(args[1:], " "))
		return
	case "minpower", "maxpower":
		if len(args) != 2 {
			fmt.Fprintf(r.out, "usage: filter %s <n>\n", args[0])
			return
		}
		value, parseErr := strconv.ParseFloat(args[1], 64)
		if parseErr != nil {
			fmt.Fprintln(r.out, "power must be a number")
			return
		}
		if args[0] == "minpower" {
			err = r.actions.SetMinPower(ctx, &value)
		} else {
			err = r.actions.SetMaxPower(ctx, &value)
		}
	case "available":
		if len(args) != 2 {
			fmt.Fprintln(r.out, "usage: filter available <true|false>")
			return
		}
		value := args[1] == "true"
		err = r.actions.SetAvailable(ctx, &value)
	default:
		fmt.Fprintf(r.out, "unknown filter %q\n", args[0])
		return
	}

	if err == nil {
		r.printCatalog()
	}
}

// readMotorInput prompts field by field. Blank answers are skipped so
// the same flow serves both create and partial update.
func (r *REPL) readMotorInput() *models.MotorInput {
	input := &models.MotorInput{}

	setString := func(label string, dst **string) {
		if v := r.readLine(label); v != "" {
			*dst = &v
		}
	}
	setFloat := func(label string, dst **float64) {
		if v := r.readLine(label); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = &f
			}
		}
	}

	setString("name", &input.Name)
	setString("model", &input.Model)
	setString("description", &input.Description)
	setFloat("power (kW)", &input.Power)
	setFloat("voltage (V)", &input.Voltage)
	setFloat("current (A)", &input.Current)
	setFloat("speed (rpm)", &input.Speed)
	setFloat("weight (kg)", &input.Weight)

	if v := r.readLine("dimensions LxWxH (mm)"); v != "" {
		parts := strings.Split(v, "x")
		if len(parts) == 3 {
			l, errL := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			w, errW := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			h, errH := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if errL == nil && errW == nil && errH == nil {
				input.Dimensions = &models.Dimensions{Length: l, Width: w, Height: h}
			}
		}
	}

	setList := func(label string, dst **[]string) {
		if v := r.readLine(label); v != "" {
			items := strings.Split(v, ",")
			for i := range items {
				items[i] = strings.TrimSpace(items[i])
			}
			*dst = &items
		}
	}
	setList("images (comma separated URLs)", &input.Images)
	setList("features (comma separated)", &input.Features)
	setList("applications (comma separated)", &input.Applications)

	setFloat("price", &input.Price)
	if v := r.readLine("available (true/false)"); v != "" {
		available := v == "true"
		input.Available = &available
	}

	return input
}

func (r *REPL) create(ctx context.Context) {
	input := r.readMotorInput()
	if motor, err := r.actions.CreateMotor(ctx, input); err == nil {
		fmt.Fprintf(r.out, "created %s\n", motor.ID)
	}
}

func (r *REPL) update(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: update <id>")
		return
	}
	fmt.Fprintln(r.out, "leave a field blank to keep its current value")
	input := r.readMotorInput()
	_, _ = r.actions.UpdateMotor(ctx, args[0], input)
}

func (r *REPL) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: delete <id>")
		return
	}
	r.store.Dispatch(state.OpenConfirm{Message: "delete motor " + args[0]})
	answer := r.readLine("type yes to confirm")
	r.store.Dispatch(state.CloseConfirm{})
	if answer != "yes" {
		fmt.Fprintln(r.out, "cancelled")
		return
	}
	_ = r.actions.DeleteMotor(ctx, args[0])
}

func (r *REPL) upload(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: upload <path>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fileName := filepath.Base(args[0])
	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if url, err := r.actions.UploadImage(ctx, fileName, contentType, data); err == nil {
		fmt.Fprintln(r.out, url)
	}
}

func (r *REPL) removeImage(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: rm-image <name>")
		return
	}
	_ = r.actions.DeleteImage(ctx, args[0])
}
