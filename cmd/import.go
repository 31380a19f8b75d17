package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/wordboard/internal/adapters/importer"
	"github.com/okian/wordboard/pkg/logger"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		sheet    string
		noHeader bool
	)
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Bulk create vocabulary from a spreadsheet",
		Long: "Reads word, word_type, meaning and example from columns A to D and " +
			"inserts every row whose word is not stored yet.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.Get()

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer func() { _ = f.Close() }()

			opts := []importer.Option{importer.WithHeader(!noHeader)}
			if sheet != "" {
				opts = append(opts, importer.WithSheet(sheet))
			}
			rows, err := importer.ReadVocabulary(f, opts...)
			if err != nil {
				return err
			}

			svc, err := startService(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.BulkCreateVocabs(ctx, rows)
			if err != nil {
				return fmt.Errorf("import %s (%d inserted): %w", args[0], res.WordsInserted, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet to read (default: first sheet)")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "treat the first row as data")
	return cmd
}
