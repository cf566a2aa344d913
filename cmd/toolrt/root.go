package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/config"
)

type cliOptions struct {
	configFiles    []string
	port           int
	host           string
	descriptorsURL string
	logLevel       string

	cfg    *config.Config
	logger *common.Logger
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "toolrt",
		Short:         "Runtime for descriptor-driven text transformation tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	root.PersistentFlags().StringArrayVarP(&opts.configFiles, "config", "c", nil, "configuration file path (repeatable, later files win)")
	root.PersistentFlags().IntVarP(&opts.port, "port", "p", 0, "server port (overrides config)")
	root.PersistentFlags().StringVar(&opts.host, "host", "", "server host (overrides config)")
	root.PersistentFlags().StringVar(&opts.descriptorsURL, "descriptors", "", "descriptor document URL (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newListCmd(opts),
		newDescribeCmd(opts),
		newRunCmd(opts),
		newHTMLCmd(opts),
		newMCPCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)

	return root
}

// load resolves configuration and logging. Flags take priority over
// environment variables, which take priority over files.
func (o *cliOptions) load() error {
	files := o.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return err
	}
	config.ApplyFlagOverrides(cfg, o.port, o.host)
	if o.descriptorsURL != "" {
		cfg.Descriptors.URL = o.descriptorsURL
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	o.cfg = cfg
	o.logger = common.NewLoggerFromConfig(cfg.Logging)
	o.logger.Debug().
		Str("config_files", fmt.Sprintf("%v", files)).
		Str("descriptors_url", cfg.Descriptors.URL).
		Msg("configuration loaded")
	return nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"toolrt.toml",
		filepath.Join("config", "toolrt.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "toolrt.toml"),
		filepath.Join(binDir, "config", "toolrt.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
