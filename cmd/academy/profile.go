package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/ledger"
	httpserver "github.com/rn-academy/progress-hub/internal/interface/http"
)

func newProfileCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "List, export, import and reset learner profiles",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles with stored progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := ledger.Profiles(cmd.Context(), c.app.store, c.app.keys)
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), profiles, func(w io.Writer) {
				for _, p := range profiles {
					fmt.Fprintln(w, p)
				}
			})
		},
	}

	var outFile string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the profile's records as a JSON archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := shared.NewProfileID(c.profileID())
			if err != nil {
				return err
			}
			archive, err := ledger.Export(cmd.Context(), c.app.store, c.app.keys, profile, c.app.clock.Now())
			if err != nil {
				return err
			}

			if outFile == "" {
				return writeJSON(cmd.OutOrStdout(), archive)
			}
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			if err := writeJSON(f, archive); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d record(s) of %s to %s\n", len(archive.Records), profile, outFile)
			return nil
		},
	}
	export.Flags().StringVarP(&outFile, "file", "f", "", "output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON archive into the profile and re-check achievements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := shared.NewProfileID(c.profileID())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var archive ledger.Archive
			if err := json.Unmarshal(data, &archive); err != nil {
				return fmt.Errorf("read archive %s: %w", args[0], err)
			}
			if err := ledger.Import(cmd.Context(), c.app.store, c.app.keys, profile, &archive); err != nil {
				return err
			}

			out, err := c.app.progress.CheckAchievements(cmd.Context(), command.CheckAchievementsCommand{Profile: string(profile)})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d record(s) into %s\n", len(archive.Records), profile)
			})
		},
	}

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record of the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := shared.NewProfileID(c.profileID())
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("reset deletes all progress of " + string(profile) + "; pass --yes to confirm")
			}
			if err := ledger.Reset(cmd.Context(), c.app.store, c.app.keys, profile); err != nil {
				return err
			}
			res := map[string]string{"reset": string(profile)}
			return c.render(cmd.OutOrStdout(), res, func(w io.Writer) {
				fmt.Fprintf(w, "Profile %s reset\n", profile)
			})
		},
	}
	reset.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	cmd.AddCommand(list, export, importCmd, reset)
	return cmd
}

func newHashKeyCmd() *cobra.Command {
	return noApp(&cobra.Command{
		Use:   "hash-key [key]",
		Short: "Print the bcrypt hash of an API key for HTTP_API_KEY_HASHES",
		Long:  "Print the bcrypt hash of an API key for HTTP_API_KEY_HASHES.\nWithout an argument the key is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				key = strings.TrimSpace(line)
			}
			if key == "" {
				return errors.New("empty key")
			}

			hash, err := httpserver.HashAPIKey(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
}
