package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/toolrt/internal/app"
	"github.com/bobmcallan/toolrt/internal/client"
	"github.com/bobmcallan/toolrt/internal/config"
	"github.com/bobmcallan/toolrt/internal/mcp"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/server"
)

func newListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools in the descriptor document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := opts.descriptors().FetchDocument(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBRIDGE\tEXAMPLES")
			for _, d := range doc.Tools {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", d.ID, d.Name, d.Bridge, len(d.Examples))
			}
			return w.Flush()
		},
	}
}

func newDescribeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <tool>",
		Short: "Print a tool descriptor as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.descriptors().FetchDescriptor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
}

func newRunCmd(opts *cliOptions) *cobra.Command {
	var (
		input     string
		fromStdin bool
		options   []string
		example   int
	)

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Bootstrap a tool and transform input with it",
		Long: "Bootstrap a tool and transform input with it.\n\n" +
			"Input comes from --input, or stdin when --stdin is set. --example loads an\n" +
			"example's input and options instead. Options not given keep their defaults.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := parseOptions(options)
			if err != nil {
				return err
			}

			pool, err := app.NewPool(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			tool, err := pool.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("example") {
				if err := tool.ApplyExample(example); err != nil {
					return err
				}
				input = tool.Input()
				for key, v := range tool.Snapshot() {
					if _, ok := snapshot[key]; !ok {
						snapshot[key] = v
					}
				}
			} else if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				input = string(data)
			}

			out, err := tool.Transform(input, snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input text")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read input from stdin")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "option as key=value (repeatable)")
	cmd.Flags().IntVarP(&example, "example", "e", 0, "use the example at this position")
	cmd.MarkFlagsMutuallyExclusive("input", "stdin", "example")

	return cmd
}

func newHTMLCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "html <tool>",
		Short: "Bootstrap a tool and print its rendered page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := app.NewPool(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			tool, err := pool.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			html, err := tool.HTML()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), html)
			return err
		},
	}
}

func newMCPCmd(opts *cliOptions) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over the Model Context Protocol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := app.NewPool(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if stdio {
				return mcp.ServeStdio(opts.cfg, pool, opts.logger)
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf("%s:%d", opts.cfg.Server.Host, opts.cfg.Server.Port),
				Handler:           mcp.NewHandler(opts.cfg, pool, opts.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			opts.logger.Info().Str("url", opts.cfg.BaseURL()).Msg("MCP server ready")
			return serveUntilSignal(opts, srv.ListenAndServe, srv.Shutdown)
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve over stdin/stdout instead of streamable HTTP")
	return cmd
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve tool pages, the JSON API and MCP over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger.Info().
				Int("port", opts.cfg.Server.Port).
				Str("host", opts.cfg.Server.Host).
				Msg("configuration loaded")

			application, err := app.New(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer func() {
				if err := application.Close(); err != nil {
					opts.logger.Error().Err(err).Msg("application shutdown failed")
				}
			}()

			srv := server.New(application)
			opts.logger.Info().Str("url", opts.cfg.BaseURL()).Msg("server ready")
			return serveUntilSignal(opts, srv.Start, srv.Shutdown)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "toolrt version %s\n", config.GetFullVersion())
		},
	}
}

// serveUntilSignal runs start until it fails or an interrupt arrives, then
// shuts down with a bounded grace period.
func serveUntilSignal(opts *cliOptions, start func() error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		err := start()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return err
	case <-sigChan:
		opts.logger.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return err
	}
	opts.logger.Info().Msg("server stopped")
	return nil
}

func (o *cliOptions) descriptors() *client.DescriptorClient {
	return client.NewDescriptorClient(o.cfg.Descriptors.URL, o.cfg.Descriptors.GetTimeout(), o.logger)
}

// parseOptions turns key=value pairs into a snapshot. Values stay strings;
// checkbox controls accept any strconv.ParseBool spelling.
func parseOptions(pairs []string) (models.OptionsSnapshot, error) {
	snapshot := models.OptionsSnapshot{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q (want key=value)", pair)
		}
		snapshot[key] = value
	}
	return snapshot, nil
}
