package cmd

import (
	"fmt"
	"os"

	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/query"
	"github.com/kingyeung625/hk-school-selector/service/tabular"

	"github.com/spf13/cobra"
)

var outputPath string

// exportCmd writes the filtered records to an xlsx workbook
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "导出筛选结果为 Excel，未指定筛选条件时导出全部",
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadCollection(args)
		if err != nil {
			return err
		}
		registry := facet.DefaultRegistry()
		state, err := parseSelections(registry, facetArgs)
		if err != nil {
			return err
		}
		result, err := query.NewEvaluator(registry).Run(coll.Records, state)
		if err != nil {
			return err
		}

		var records []*models.SchoolRecord
		if result.FilterApplied {
			records = result.Records
		}
		data, err := tabular.ExportCollection(coll, records)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("写入文件失败: %w", err)
		}

		n := coll.Len()
		if result.FilterApplied {
			n = result.Total()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已导出 %d 所学校到 %s\n", n, outputPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringArrayVar(&facetArgs, "facet", nil, "筛选条件 key=value，可重复")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "schools.xlsx", "输出文件")
	rootCmd.AddCommand(exportCmd)
}
