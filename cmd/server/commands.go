package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/do"
	"github.com/serroba/shortify/internal/container"
	"github.com/serroba/shortify/internal/shortener"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

func newCommandInjector(options *container.Options) *do.Injector {
	injector := do.New()
	registerPackages(injector, options)

	return injector
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the link table in the configured SQL store",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			injector := newCommandInjector(options)
			defer func() { _ = injector.Shutdown() }()

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := container.Migrate(ctx, injector); err != nil {
				fmt.Fprintln(os.Stderr, "migrate:", err)
				os.Exit(1)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "store %q is ready\n", options.Store)
		}),
	}
}

func lookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <slug>...",
		Short: "Resolve slugs against the configured store",
		Args:  cobra.MinimumNArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.Options) {
			injector := newCommandInjector(options)
			defer func() { _ = injector.Shutdown() }()

			svc, err := do.Invoke[*shortener.Service](injector)
			if err != nil {
				fmt.Fprintln(os.Stderr, "lookup:", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Slug", "Long URL", "Created"})

			for _, slug := range args {
				t.AppendRow(lookupRow(ctx, svc, shortener.Slug(slug)))
			}

			t.Render()
		}),
	}
}

func lookupRow(ctx context.Context, svc *shortener.Service, slug shortener.Slug) table.Row {
	link, err := svc.Resolve(ctx, slug)

	switch {
	case errors.Is(err, shortener.ErrNotFound):
		return table.Row{slug, "(not found)", ""}
	case err != nil:
		return table.Row{slug, "(error: " + err.Error() + ")", ""}
	default:
		return table.Row{slug, link.LongURL, link.CreatedAt.Format(time.RFC3339)}
	}
}
