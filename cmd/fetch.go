package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/nemo-provider/internal/provider"
)

var (
	fetchHost   string
	fetchForm   string
	fetchPretty bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one form's responses and print them as a FeatureCollection",
	Example: `  nemo-provider fetch --host "` + provider.ExampleHostToken + `" --form 123`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p := provider.FromConfig(cfg.Client)
		return runFetch(ctx, cmd.OutOrStdout(), p, fetchHost, fetchForm, fetchPretty)
	},
}

func runFetch(ctx context.Context, out io.Writer, p *provider.Provider, host, form string, pretty bool) error {
	fc, err := p.GetData(ctx, provider.Params{
		provider.HostParam: host,
		provider.IDParam:   form,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "fetch: encode feature collection")
	}
	return nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchHost, "host", "", "composite host token: \"host mission username password\"")
	fetchCmd.Flags().StringVar(&fetchForm, "form", "", "form id")
	fetchCmd.Flags().BoolVar(&fetchPretty, "pretty", false, "indent the JSON output")
	rootCmd.AddCommand(fetchCmd)
}
