package browser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/nav"
	"github.com/petrarca/techstack-lens/internal/presenter"
	"github.com/petrarca/techstack-lens/internal/progress"
	"github.com/petrarca/techstack-lens/internal/view"
)

// Prompt is printed before every command
const Prompt = "techstack> "

const helpText = `Commands:
  home                 show all categories
  cat <name>           open a category
  tech <name>          open a technology of the current category
  open <location>      open a location, e.g. /category/Databases/tech/Redis
  search <query>       search everything (also: /<query>)
  pick <n>             open the n-th search result
  close                close the search
  find                 open or close the search
  toggle <section>     collapse or expand a section of the technology view
  export [dir]         write the current technology as JSON
  show                 show the current view again
  back                 go to the previous view
  help                 show this help
  quit                 leave`

// Shell is a line-mode front end for a Session
type Shell struct {
	session   *Session
	presenter *presenter.Presenter
	logger    *slog.Logger
	progress  *progress.Progress
	exportDir string
}

// NewShell creates a shell. Exports go to the working directory unless SetExportDir is used.
func NewShell(session *Session, p *presenter.Presenter, logger *slog.Logger) *Shell {
	if p == nil {
		p = presenter.New(nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Shell{
		session:   session,
		presenter: p,
		logger:    logger,
		progress:  progress.Disabled(),
		exportDir: ".",
	}
}

// SetExportDir sets the default export directory
func (sh *Shell) SetExportDir(dir string) {
	sh.exportDir = dir
}

// SetProgress sets the reporter used for export events
func (sh *Shell) SetProgress(p *progress.Progress) {
	sh.progress = p
}

// Run reads commands from in until quit, end of input or ctx cancellation
func (sh *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	sh.show(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := sh.Exec(out, line); quit {
			return nil
		}
	}
}

// Exec runs a single command line and reports whether the shell should stop
func (sh *Shell) Exec(out io.Writer, line string) bool {
	cmd, arg := splitCommand(line)
	sh.logger.Debug("Browser command", "command", cmd, "arg", arg)

	s := sh.session
	switch cmd {
	case "quit", "exit", "q":
		return true

	case "help", "?":
		fmt.Fprintln(out, helpText)

	case "home":
		sh.navigate(out, nav.Home())

	case "cat":
		if arg == "" {
			fmt.Fprintln(out, "usage: cat <name>")
			break
		}
		sh.navigate(out, nav.Category(arg))

	case "tech":
		if arg == "" {
			fmt.Fprintln(out, "usage: tech <name>")
			break
		}
		cur := s.Current()
		if cur.Kind == nav.KindHome {
			fmt.Fprintln(out, "open a category first")
			break
		}
		sh.navigate(out, nav.Technology(cur.Category, arg))

	case "open":
		t, err := nav.Parse(arg)
		if err != nil {
			fmt.Fprintln(out, err)
			break
		}
		sh.navigate(out, t)

	case "search":
		sh.search(out, arg)

	case "pick":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintln(out, "usage: pick <n>")
			break
		}
		if _, err := s.Pick(n); err != nil {
			fmt.Fprintln(out, err)
			break
		}
		sh.show(out)

	case "close":
		s.CloseSearch()
		fmt.Fprintln(out, "search closed")

	case "find":
		if s.ToggleSearch() {
			sh.presenter.Results(out, s.Query(), s.Results())
			break
		}
		fmt.Fprintln(out, "search closed")

	case "toggle":
		collapsed, err := s.ToggleSection(arg)
		if err != nil {
			fmt.Fprintln(out, err)
			break
		}
		state := "expanded"
		if collapsed {
			state = "collapsed"
		}
		fmt.Fprintf(out, "%s %s\n", arg, state)

	case "export":
		sh.export(out, arg)

	case "show":
		sh.show(out)

	case "back":
		if !s.Back() {
			fmt.Fprintln(out, "no previous view")
			break
		}
		sh.show(out)

	default:
		if strings.HasPrefix(cmd, "/") {
			sh.search(out, strings.TrimSpace(line[1:]))
			break
		}
		fmt.Fprintf(out, "unknown command %q, type help\n", cmd)
	}
	return false
}

func splitCommand(line string) (string, string) {
	cmd, arg, _ := strings.Cut(line, " ")
	if strings.HasPrefix(cmd, "/") {
		return cmd, strings.TrimSpace(arg)
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func (sh *Shell) search(out io.Writer, query string) {
	results := sh.session.SetQuery(query)
	sh.presenter.Results(out, query, results)
}

func (sh *Shell) navigate(out io.Writer, t nav.Target) {
	if err := sh.session.Navigate(t); err != nil {
		sh.presenter.NotFound(out, err)
		return
	}
	sh.show(out)
}

// show renders the current view
func (sh *Shell) show(out io.Writer) {
	s := sh.session
	cur := s.Current()

	switch cur.Kind {
	case nav.KindHome:
		sh.presenter.Home(out, view.Home(s.Dataset()))
	case nav.KindCategory:
		v, err := view.Category(s.Dataset(), cur.Category)
		if err != nil {
			sh.presenter.NotFound(out, err)
			return
		}
		sh.presenter.Category(out, v)
	case nav.KindTechnology:
		v, err := view.Detail(s.Dataset(), cur.Category, cur.Tech)
		if err != nil {
			sh.presenter.NotFound(out, err)
			return
		}
		sh.presenter.Detail(out, v, s.IsCollapsed)
	}
}

func (sh *Shell) export(out io.Writer, dir string) {
	cur := sh.session.Current()
	if cur.Kind != nav.KindTechnology {
		fmt.Fprintln(out, "open a technology first")
		return
	}
	tech, err := sh.session.Dataset().Technology(cur.Category, cur.Tech)
	if err != nil {
		sh.presenter.NotFound(out, err)
		return
	}

	if dir == "" {
		dir = sh.exportDir
	}
	path := filepath.Join(dir, catalog.ExportFileName(tech.Name))

	data, err := catalog.ExportBytes(tech.Details)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	sh.progress.FileWriting(path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		sh.logger.Error("Export failed", "path", path, "error", err)
		fmt.Fprintf(out, "export failed: %v\n", err)
		return
	}
	sh.progress.FileWritten(path)
	fmt.Fprintf(out, "exported %s\n", path)
}
