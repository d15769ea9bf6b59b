package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("not found")

func newFieldsCmd() *cobra.Command {
	var scopeName string
	cmd := &cobra.Command{
		Use:   "fields [name...]",
		Short: "List cataloged fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd.Context(), args)
			if err != nil {
				return err
			}
			scopes := []types.Scope{types.SystemScope, types.SharedScope, types.LocalScope}
			if scopeName != "" {
				scope, err := types.ParseScope(scopeName)
				if err != nil {
					return err
				}
				scopes = []types.Scope{scope}
			}
			result := make(map[string][]types.LightweightField, len(scopes))
			for _, scope := range scopes {
				fields := c.Fields(scope)
				list := make([]types.LightweightField, 0, len(fields))
				for _, name := range slices.Sorted(maps.Keys(fields)) {
					list = append(list, fields[name])
				}
				result[scope.String()] = list
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), result)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCOPE\tNAME\tTYPE\tMNEMONIC\tCHOICES\tCONTENT TYPES")
			for _, scope := range scopes {
				for _, f := range result[scope.String()] {
					choices := 0
					if f.HasChoices() {
						choices = len(f.Choices.Entries)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", scope, f.Name, f.DataType, f.Mnemonic, choices, joinIds(f.ContentTypeIds))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&scopeName, "scope", "s", "", "Only list one scope (system, shared, local)")
	return cmd
}

func joinIds(ids []types.ContentTypeId) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

func newChoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "choices <name> <datatype>",
		Short: "Show the display choices of a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd.Context(), args[:1])
			if err != nil {
				return err
			}
			choices, found, err := c.DisplayChoices(args[0], args[1])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("choices for %s (%s): %w", args[0], args[1], errNotFound)
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), choices)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VALUE\tLABEL\tDEFAULT")
			for _, e := range choices.Entries {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", e.Value, e.Label, e.Default)
			}
			return tw.Flush()
		},
	}
}

func newMnemonicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mnemonic <name>",
		Short: "Show the mnemonic key of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd.Context(), args)
			if err != nil {
				return err
			}
			mnemonic, found, err := c.MnemonicKey(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("field %s: %w", args[0], errNotFound)
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{"name": args[0], "mnemonic": mnemonic})
			}
			fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
			return nil
		},
	}
}

func newContentTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "content-types [id]",
		Short: "List content types and their local fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid content type id %q", args[0])
				}
				fields := c.ContentTypeFields(types.ContentTypeId(id))
				if fields == nil {
					return fmt.Errorf("content type %d: %w", id, errNotFound)
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), fields)
				}
				for _, f := range fields {
					fmt.Fprintln(cmd.OutOrStdout(), f.Name)
				}
				return nil
			}
			contentTypes := c.ContentTypes()
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), contentTypes)
			}
			ids := make([]types.ContentTypeId, 0, len(contentTypes))
			for id := range contentTypes {
				ids = append(ids, id)
			}
			slices.Sort(ids)
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, strings.Join(contentTypes[id], ","))
			}
			return nil
		},
	}
}
