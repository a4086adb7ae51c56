package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/models"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/output"
)

// parseQuery decodes an optional JSON object argument.
func parseQuery(args []string, i int) (models.Row, error) {
	if len(args) <= i {
		return models.Row{}, nil
	}
	row, err := models.ParseRow([]byte(args[i]))
	if err != nil {
		return models.Row{}, fmt.Errorf("invalid JSON object %q: %w", args[i], err)
	}
	return row, nil
}

func parseValueArg(arg string) (models.Value, error) {
	var v models.Value
	if err := v.UnmarshalJSON([]byte(arg)); err != nil {
		return v, fmt.Errorf("invalid JSON value %q: %w", arg, err)
	}
	return v, nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new workbook with an empty sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := sheetdb.Create(filePath, storeOptions()); err != nil {
				return fmt.Errorf("create failed: %w", err)
			}
			return nil
		},
	}
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select [query-json]",
		Short: "Print rows matching a query (all rows without one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(args, 0)
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			rows, found := s.Select(query)
			data, err := output.RowsToJSON(rows, found, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(cmd, data)
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <search-column> <search-value-json> <target-column>",
		Short: "Print a column of the first row whose search column equals a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			searchValue, err := parseValueArg(args[1])
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			v, found := s.GetColumnValue(args[0], searchValue, args[2])
			data, err := output.LookupToJSON(v, found)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(cmd, data)
		},
	}
}

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <row-json>",
		Short: "Append a row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseQuery(args, 0)
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			return s.Insert(row)
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <query-json> <data-json>",
		Short: "Merge data into every row matching a query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(args, 0)
			if err != nil {
				return err
			}
			data, err := parseQuery(args, 1)
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			return s.Update(query, data)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <query-json>",
		Short: "Delete every row matching a query ({} deletes all rows)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(args, 0)
			if err != nil {
				return err
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			return s.Delete(query)
		},
	}
}

func newAddSheetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-sheet <name> [rows-json-array]",
		Short: "Add a sheet, optionally with initial rows",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var initial []models.Row
			if len(args) == 2 {
				rows, err := models.ParseRows([]byte(args[1]))
				if err != nil {
					return fmt.Errorf("invalid JSON array %q: %w", args[1], err)
				}
				initial = rows
			}
			s, err := openWorkbookStore()
			if err != nil {
				return err
			}
			return s.AddSheet(args[0], initial...)
		},
	}
}

func newRemoveSheetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-sheet <name>",
		Short: "Remove a sheet from the workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorkbookStore()
			if err != nil {
				return err
			}
			return s.RemoveSheet(args[0])
		},
	}
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List sheet names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorkbookStore()
			if err != nil {
				return err
			}
			names, err := s.GetAllSheetNames()
			if err != nil {
				return err
			}
			data, err := output.ToJSON(names, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(cmd, data)
		},
	}
}

func newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <name>",
		Short: "Print 1 if the sheet exists, null otherwise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorkbookStore()
			if err != nil {
				return err
			}
			ok, err := s.IsSheetExists(args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, output.ExistsToJSON(ok))
		},
	}
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <column>",
		Short: "Count non-empty values in a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			return writeOutput(cmd, []byte(strconv.Itoa(s.GetColumnDatasNumber(args[0]))))
		},
	}
}

func newAddColumnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-column <name> [default-json]",
		Short: "Add a column to every row, set to a default value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def := models.Null()
			if len(args) == 2 {
				v, err := parseValueArg(args[1])
				if err != nil {
					return err
				}
				def = v
			}
			s, err := openStore()
			if err != nil {
				return err
			}
			return s.AddColumn(args[0], def)
		},
	}
}

func newRemoveColumnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-column <name>",
		Short: "Remove a column from every row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			return s.RemoveColumn(args[0])
		},
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every sheet as rows with its used range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := sheetdb.Extract(filePath)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			data, err := output.WorkbookToJSON(wb, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(cmd, data)
		},
	}
}
