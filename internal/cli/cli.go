package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropkit/pkg/buildinfo"
	"github.com/matzehuels/cropkit/pkg/cache"
	"github.com/matzehuels/cropkit/pkg/config"
	"github.com/matzehuels/cropkit/pkg/editor"
	"github.com/matzehuels/cropkit/pkg/integrations"
	"github.com/matzehuels/cropkit/pkg/integrations/bgremove"
	"github.com/matzehuels/cropkit/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "cropkit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	noCache    bool
	cfg        *config.Config
}

// New creates a CLI that logs to w at the given level and prints results to
// stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects result output (status lines, printed paths).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Crop, compose and clean up images",
		Long: `cropkit is an image crop and composition tool. It crops images with an
eight-handle crop rectangle, removes backgrounds through an external service
and fits the result into a fixed-size square.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.NewLogHooks(c.Logger).Install()
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the background-removal result cache")

	root.AddCommand(c.cropCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.removeBgCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Editor Factory
// =============================================================================

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// config loads the settings file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configFile())
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newEditor builds an editor from the settings file. Background removal is
// enabled only when an endpoint is configured.
func (c *CLI) newEditor(ctx context.Context, opts ...editor.Option) (*editor.Editor, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	base := []editor.Option{
		editor.WithLogger(loggerFromContext(ctx)),
		editor.WithConstraints(cfg.Constraints()),
		editor.WithPaddingRule(cfg.PaddingRule()),
		editor.WithStyle(cfg.Style()),
		editor.WithMaxCanvasSide(cfg.MaxCanvasSide),
		editor.WithOutputSize(cfg.OutputSize),
		editor.WithFetcher(integrations.NewClient(nil, 0)),
	}
	if cfg.BackgroundRemoval.Endpoint != "" {
		remover, err := c.newRemover(cfg)
		if err != nil {
			return nil, err
		}
		base = append(base, editor.WithBackgroundRemover(remover))
	}
	return editor.New(append(base, opts...)...), nil
}

func (c *CLI) newRemover(cfg *config.Config) (*bgremove.Client, error) {
	ch, err := c.newCache(cfg)
	if err != nil {
		return nil, err
	}
	return bgremove.New(cfg.BackgroundRemoval.Endpoint,
		bgremove.WithAPIKey(cfg.BackgroundRemoval.APIKey),
		bgremove.WithTimeout(cfg.BackgroundRemoval.Timeout.Duration),
		bgremove.WithCache(ch, cfg.Cache.TTL.Duration),
	)
}

func (c *CLI) newCache(cfg *config.Config) (cache.Cache, error) {
	if c.noCache || !cfg.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
