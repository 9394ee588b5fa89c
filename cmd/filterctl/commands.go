package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fleetyard/fleetdash/internal/codec"
	"github.com/fleetyard/fleetdash/internal/domains/accrueddistance"
	"github.com/fleetyard/fleetdash/internal/domains/assets"
	"github.com/fleetyard/fleetdash/internal/domains/idleassets"
	"github.com/fleetyard/fleetdash/internal/domains/movingassets"
	"github.com/fleetyard/fleetdash/internal/domains/yardcheck"
	"github.com/fleetyard/fleetdash/internal/filter"
	"github.com/fleetyard/fleetdash/internal/session"
	"github.com/fleetyard/fleetdash/internal/storage"
)

// opener returns a storage service and a function releasing it.
type opener func() (*storage.Service, func(), error)

// domainVersions are the schema versions the current build writes.
var domainVersions = map[string]int{
	yardcheck.Name:       yardcheck.Version,
	accrueddistance.Name: accrueddistance.Version,
	assets.Name:          assets.Version,
	idleassets.Name:      idleassets.Version,
	movingassets.Name:    movingassets.Version,
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "filterctl",
		Short:         "Inspect and clear persisted dashboard filters",
		SilenceUsage:  true,
	}
	root.AddCommand(newListCmd(open), newShowCmd(open), newClearCmd(open))
	return root
}

func newListCmd(open opener) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored snapshots of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := open()
			if err != nil {
				return err
			}
			defer done()

			keys, err := svc.Backend().Keys(session.UserPrefix(user))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOMAIN\tVERSION\tSTATUS")
			for _, key := range keys {
				_, domain, ok := session.ParseStorageKey(key)
				if !ok {
					continue
				}
				env, err := svc.Inspect(key)
				if err != nil {
					fmt.Fprintf(w, "%s\t-\tunreadable\n", domain)
					continue
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", domain, env.Version, status(domain, env.Version))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func status(domain string, version int) string {
	current, ok := domainVersions[domain]
	switch {
	case !ok:
		return "unknown domain"
	case current != version:
		return fmt.Sprintf("stale (current %d)", current)
	default:
		return "current"
	}
}

func newShowCmd(open opener) *cobra.Command {
	var user, domain, field string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored snapshot of one domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := open()
			if err != nil {
				return err
			}
			defer done()

			env, err := svc.Inspect(session.StorageKey(user, domain))
			if err != nil {
				return fmt.Errorf("read %s filters of %s: %w", domain, user, err)
			}
			if field != "" {
				return showField(cmd.OutOrStdout(), env, field)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(env)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id")
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "filter domain, e.g. yardCheck")
	cmd.Flags().StringVarP(&field, "field", "f", "", "print one committed field, as group.field")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

// showField prints the committed and staged value of one field.
func showField(w io.Writer, env *storage.Envelope, path string) error {
	group, field, ok := strings.Cut(path, ".")
	if !ok || group == "" || field == "" {
		return fmt.Errorf("field must be group.field, got %q", path)
	}
	snap := env.Snapshot()
	var c codec.JSON
	for _, side := range []struct {
		name string
		fs   filter.FilterSet
	}{{"base", snap.BaseFilters}, {"view", snap.ViewFilters}} {
		data, err := c.Encode(side.fs.Get(group, field))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", side.name, data)
	}
	return nil
}

func newClearCmd(open opener) *cobra.Command {
	var user, domain string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete stored snapshots of a user, or of one domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := open()
			if err != nil {
				return err
			}
			defer done()

			if domain != "" {
				if err := svc.Clear(session.StorageKey(user, domain)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s filters of %s\n", domain, user)
				return nil
			}
			n, err := svc.ClearUser(user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d snapshots of %s\n", n, user)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id")
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "only this domain")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
