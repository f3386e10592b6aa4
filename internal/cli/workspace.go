package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/preprints/internal/buildinfo"
	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/config"
	"github.com/aalvaropc/preprints/internal/infra/eventlog"
	"github.com/aalvaropc/preprints/internal/infra/httpclient"
	"github.com/aalvaropc/preprints/internal/infra/logger"
	"github.com/aalvaropc/preprints/internal/infra/notify"
	"github.com/aalvaropc/preprints/internal/infra/osfapi"
	"github.com/aalvaropc/preprints/internal/infra/sharesearch"
	"github.com/aalvaropc/preprints/internal/infra/workspacefinder"
	"github.com/aalvaropc/preprints/internal/ports"
	"github.com/aalvaropc/preprints/internal/usecase"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	api     *osfapi.Client
	counter ports.SearchCounter
	events  ports.EventSink
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}
	return newWorkspaceCtx(root, cfg)
}

func newWorkspaceCtx(root string, cfg domain.Config) (*workspaceCtx, error) {
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.API.Timeout
	clientCfg.Token = cfg.API.Token
	clientCfg.UserAgent = buildinfo.UserAgent()

	exec := httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(clientCfg)),
		httpclient.WithTimeout(cfg.API.Timeout),
		httpclient.WithLogger(logger.Component("http")),
	)

	api, err := osfapi.New(cfg.API.URL,
		osfapi.WithExecutor(exec),
		osfapi.WithLogger(logger.Component("osfapi")),
	)
	if err != nil {
		return nil, err
	}

	var events ports.EventSink = eventlog.Discard{}
	if cfg.Analytics.Enabled {
		events = eventlog.NewJSONLSink(root, cfg.Analytics.File)
	}

	// The search index is public; it never gets the API token.
	searchExec := httpclient.NewExecutor(
		httpclient.WithTimeout(cfg.API.Timeout),
		httpclient.WithLogger(logger.Component("http")),
	)

	return &workspaceCtx{
		root:    root,
		cfg:     cfg,
		api:     api,
		counter: sharesearch.NewCounter(cfg.Search.URL, searchExec),
		events:  events,
	}, nil
}

func (ws *workspaceCtx) subjects() *usecase.Subjects {
	return usecase.NewSubjects(ws.api, ws.cfg.Taxonomy.PageSize,
		usecase.WithSubjectsLogger(logger.Component("subjects")),
	)
}

func (ws *workspaceCtx) landing() *usecase.Landing {
	return usecase.NewLanding(ws.cfg, ws.api, ws.counter, ws.events,
		usecase.WithLandingLogger(logger.Component("landing")),
	)
}

func (ws *workspaceCtx) addPreprint(n ports.Notifier, provider string) *usecase.AddPreprint {
	return usecase.NewAddPreprint(usecase.AddPreprintDeps{
		Nodes:     ws.api,
		Users:     ws.api,
		Uploader:  ws.api,
		Submitter: ws.api,
		Events:    ws.events,
		Notifier:  n,
		Subjects:  ws.subjects(),
	},
		usecase.WithStorageProvider(ws.cfg.Upload.Provider),
		usecase.WithProvider(provider),
		usecase.WithAddPreprintLogger(logger.Component("addpreprint")),
	)
}

func stdoutNotifier(w io.Writer) *notify.Writer {
	return notify.NewWriter(w, logger.Component("notify"))
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `preprints init`): %w", wd, err)
	}
	return root, nil
}

// resolveDraftPath accepts a path, or a bare name looked up under <root>/drafts.
func resolveDraftPath(root, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("draft is required (use --file or -f)")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		return filepath.Clean(p), nil
	}

	draftsDir := filepath.Join(root, "drafts")
	if hasYAMLExt(in) {
		for _, p := range []string{filepath.Join(draftsDir, in), filepath.Join(root, in)} {
			if fileExists(p) {
				return p, nil
			}
		}
	}
	for _, ext := range []string{".yaml", ".yml"} {
		if p := filepath.Join(draftsDir, in+ext); fileExists(p) {
			return p, nil
		}
	}

	return "", fmt.Errorf("draft %q not found in %q", in, draftsDir)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
