package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/listview/internal/config"
	"github.com/pstuifzand/listview/internal/history"
	import_parser "github.com/pstuifzand/listview/internal/import"
	"github.com/pstuifzand/listview/internal/itemactions"
	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
	"github.com/pstuifzand/listview/internal/selection"
	"github.com/pstuifzand/listview/internal/storage"
	"github.com/pstuifzand/listview/internal/theme"
	"github.com/pstuifzand/listview/internal/ui"
)

// BrowseOptions are the flags of the browse command
type BrowseOptions struct {
	StatePath  string
	HistoryDir string
	Fresh      bool
}

func addBrowse(topLevel *cobra.Command, ro *RootOptions) {
	bo := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse FILE",
		Short: "open a list file in the terminal browser",
		Example: `
listview browse todo.json
listview browse todo.json --fresh
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.Config()
			if err != nil {
				return err
			}
			log, closeLog, err := fileLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer closeLog()
			return browse(args[0], bo, cfg, log)
		},
	}
	cmd.Flags().StringVar(&bo.StatePath, "state", "", "View state database, defaults to state.db in the config directory.")
	cmd.Flags().StringVar(&bo.HistoryDir, "history-dir", "", "Directory of the filter history, defaults to ~/.local/share/listview/history.")
	cmd.Flags().BoolVar(&bo.Fresh, "fresh", false, "Ignore the saved view state of the file.")

	topLevel.AddCommand(cmd)
}

// fileLogger opens the configured log file. The terminal belongs to the UI.
func fileLogger(c config.Log) (*logging.Logger, func(), error) {
	if c.File == "" {
		return logging.Nop(), func() {}, nil
	}
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return logging.NewText(f, level), func() { f.Close() }, nil
}

func statePath(bo *BrowseOptions) (string, error) {
	if bo.StatePath != "" {
		return bo.StatePath, nil
	}
	if err := config.EnsureConfigDir(); err != nil {
		return "", err
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

func browse(path string, bo *BrowseOptions, cfg *config.Config, log *logging.Logger) error {
	dbPath, err := statePath(bo)
	if err != nil {
		return err
	}
	states, err := storage.OpenStateStore(dbPath)
	if err != nil {
		return err
	}
	defer states.Close()

	screen, err := ui.NewScreen(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		return err
	}
	_, height := screen.Size()

	s, err := newSession(path, cfg, log, max(height-2, 1))
	if err != nil {
		screen.Close()
		return err
	}
	defer s.close()

	if !bo.Fresh {
		st, err := states.Load(s.name)
		switch {
		case err == nil:
			s.restore(st)
		case !errors.Is(err, storage.ErrNoState):
			log.Warn("view state ignored", "list", s.name, "error", err)
		}
	}

	hm := openHistory(bo, log)
	if hm != nil {
		s.loadHistory(hm)
	}

	s.view.Run(screen)
	screen.Close()

	if err := states.Save(s.name, s.capture()); err != nil {
		log.Error("save view state", "list", s.name, "error", err)
	}
	if hm != nil {
		if err := hm.Save(filterHistory, s.view.FilterHistory().Entries()); err != nil {
			log.Error("save filter history", "error", err)
		}
	}
	return s.save()
}

const filterHistory = "filter"

// openHistory returns nil when the history can not be kept; browsing
// works without it.
func openHistory(bo *BrowseOptions, log *logging.Logger) *history.Manager {
	dir := bo.HistoryDir
	if dir == "" {
		var err error
		if dir, err = history.DefaultDir(); err != nil {
			log.Warn("no history dir", "error", err)
			return nil
		}
	}
	hm, err := history.NewManager(dir)
	if err != nil {
		log.Warn("filter history disabled", "error", err)
		return nil
	}
	return hm
}

// session is one opened list with its view and controllers
type session struct {
	name  string
	title string
	store *storage.JSONStore
	log   *logging.Logger

	list    *model.List
	p       *projection.Projection
	sel     *selection.Controller
	actions *itemactions.Controller
	view    *ui.ListView

	dirty       bool
	unsubscribe func()
}

func newSession(path string, cfg *config.Config, log *logging.Logger, viewport int) (*session, error) {
	name, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	list, title, p, err := openList(path, cfg.View.ExpandAll, log)
	if err != nil {
		return nil, err
	}
	s := &session{
		name:  name,
		title: title,
		store: storage.NewJSONStore(path),
		log:   log.WithComponent("browse"),
		list:  list,
		p:     p,
	}
	s.unsubscribe = list.Subscribe(func(model.Event) { s.dirty = true })

	if s.sel, err = newSelection(p, cfg, log); err != nil {
		s.close()
		return nil, err
	}

	actions, err := cfg.Actions.Build()
	if err != nil {
		s.close()
		return nil, err
	}
	actionOpts := []itemactions.Option{
		itemactions.WithCapacity(cfg.Actions.Capacity),
		itemactions.WithLogger(log),
	}
	if cfg.Actions.MenuHeader {
		actionOpts = append(actionOpts, itemactions.WithMenuHeader())
	}
	if s.actions, err = itemactions.NewController(actions, actionOpts...); err != nil {
		s.close()
		return nil, err
	}

	s.view = ui.NewListView(p,
		ui.WithLogger(log),
		ui.WithTitle(displayTitle(title, path)),
		ui.WithDateFormat(cfg.View.DateFormat),
		ui.WithSelection(s.sel),
		ui.WithDragging(list, cfg.DragNDrop.MaxOffset),
		ui.WithActions(s.actions, s.handleAction),
		ui.WithCalculator(cfg.View.Calculator(viewport)),
	)
	return s, nil
}

// loadHistory fills the filter prompt history
func (s *session) loadHistory(hm *history.Manager) {
	entries, err := hm.Load(filterHistory)
	if err != nil {
		s.log.Warn("load filter history", "error", err)
		return
	}
	h := s.view.FilterHistory()
	for _, e := range entries {
		h.Add(e)
	}
}

// handleAction runs a row action and returns the status message
func (s *session) handleAction(a itemactions.Action, item *projection.Item) string {
	key, ok := item.Key()
	if !ok {
		return ""
	}
	switch a.ID {
	case "open":
		if !item.IsNode() || !s.p.IsHierarchical() {
			return "opened " + item.Text()
		}
		if err := s.p.ToggleExpanded(item); err != nil {
			return err.Error()
		}
		if item.IsExpanded() {
			return "expanded " + item.Text()
		}
		return "collapsed " + item.Text()
	case "delete":
		text := item.Text()
		if err := s.list.Remove(key); err != nil {
			return err.Error()
		}
		return "deleted " + text
	case "copy":
		return "key " + string(key)
	}
	s.log.Debug("unhandled action", "action", a.ID, "key", key)
	return a.Title + " " + item.Text()
}

// restore applies a saved view state; keys that no longer exist are dropped
func (s *session) restore(st storage.ViewState) {
	if s.p.IsHierarchical() && len(st.Expanded) > 0 {
		if err := s.p.SetExpandedKeys(st.Expanded); err != nil {
			s.log.Warn("restore expanded", "error", err)
		}
	}
	s.sel.SetSelection(st.Selection)
	if st.Filter != "" {
		if err := s.view.SetFilter(st.Filter); err != nil {
			s.log.Warn("restore filter", "filter", st.Filter, "error", err)
		}
	}
	if st.Current != "" {
		s.view.SetCursorKey(st.Current)
	}
}

// capture returns the view state to save
func (s *session) capture() storage.ViewState {
	st := storage.ViewState{
		Selection: s.sel.Selection(),
		Filter:    s.view.Filter(),
	}
	if s.p.IsHierarchical() {
		st.Expanded = s.p.ExpandedKeys()
	}
	if cur := s.view.Cursor(); cur != nil {
		st.Current, _ = cur.Key()
	}
	return st
}

// save writes the list back when it was changed. Imported files are
// never overwritten.
func (s *session) save() error {
	if !s.dirty {
		return nil
	}
	if import_parser.DetectFormat(s.store.FilePath) != import_parser.FormatJSON {
		return fmt.Errorf("%s: changes are only saved to JSON lists", s.store.FilePath)
	}
	if err := s.store.Save(s.title, s.list); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *session) close() {
	if s.view != nil {
		s.view.Close()
	}
	if s.actions != nil {
		s.actions.Close()
	}
	if s.sel != nil {
		s.sel.Close()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.p.Close()
}
