package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/halmert/pagemason/internal/editor"
	"github.com/halmert/pagemason/internal/engine"
	"github.com/halmert/pagemason/internal/project"
	"github.com/halmert/pagemason/internal/server"
	"github.com/halmert/pagemason/internal/theme"
)

// starter content for a project that has never been saved.
const (
	starterHTML = `<section>
  <h1>New page</h1>
  <p>Select a component on the left, or enable advanced editing to work in the source panel.</p>
</section>`
	starterCSS = `body {
  font-family: system-ui, sans-serif;
  margin: 2rem;
}`
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor server",
	Long:  `Starts the pagemason editor: a local web server hosting the canvas, the synced source panel, and the export API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, database, store, projects, err := openWorkspace()
		if err != nil {
			return err
		}
		defer database.Close()

		if servePort != 0 {
			cfg.Port = servePort
		}

		ctx := context.Background()

		dom := engine.NewDOM()
		current, err := projects.GetByName(ctx, cfg.Project)
		if err != nil {
			return fmt.Errorf("loading project %q: %w", cfg.Project, err)
		}

		html, css, js := starterHTML, starterCSS, ""
		if current != nil {
			html, css, js = current.HTML, current.CSS, current.JS
		}
		if err := dom.LoadDocument(html, css); err != nil {
			return fmt.Errorf("loading document: %w", err)
		}

		sched := editor.NewTickScheduler(time.Duration(cfg.FrameMillis) * time.Millisecond)
		ctrl := editor.NewController(sched)
		ctrl.SetJS(js)
		ctrl.Attach(dom)

		host := theme.NewHostPreference(theme.SchemeLight)
		resolver := theme.NewResolver(store.Values().Theme, host)
		defer resolver.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAll,
		}, database, dom, ctrl, store, projects, resolver, host)

		// Graceful shutdown; the working document is snapshotted into the
		// configured project on the way out.
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-sigCtx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down editor...")
			saveSnapshot(projects, cfg.Project, current, ctrl)
			srv.Shutdown(context.Background())
		}()

		url := fmt.Sprintf("http://localhost:%d", cfg.Port)
		fmt.Fprintf(os.Stderr, "pagemason v%s editing project %q at %s\n", Version, cfg.Project, url)
		if cfg.OpenBrowser {
			go openBrowser(url)
		}

		return srv.Start()
	},
}

// saveSnapshot persists the current source into the named project,
// reusing its id when it already exists.
func saveSnapshot(projects *project.Store, name string, current *project.Project, ctrl *editor.Controller) {
	src := ctrl.Source()
	p := project.Project{Name: name, HTML: src.HTML, CSS: src.CSS, JS: src.JS}
	if current != nil {
		p.ID = current.ID
	}
	if _, err := projects.Save(context.Background(), p); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save project %q: %v\n", name, err)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
