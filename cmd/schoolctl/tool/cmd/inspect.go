package cmd

import (
	"fmt"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// inspectCmd prints normalization statistics and facet options
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "检查资料表的规范化结果与可用筛选选项",
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadCollection(args)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		title := color.New(color.Bold).SprintFunc()
		warn := color.New(color.FgYellow).SprintFunc()

		st := coll.Stats
		fmt.Fprintf(out, "%s %s\n", title("资料来源:"), coll.Source)
		fmt.Fprintf(out, "%s %d (跳过 %d 行)\n", title("学校记录:"), coll.Len(), st.SkippedRows)
		fmt.Fprintf(out, "%s %d 篇, %s %d 所\n", title("挂接文章:"), st.ArticlesJoined, title("校网匹配:"), st.NetworksJoined)
		if st.UnparseableValues > 0 {
			fmt.Fprintln(out, warn(fmt.Sprintf("无法解析的数值: %d 个", st.UnparseableValues)))
		}
		if len(st.RescaledColumns) > 0 {
			fmt.Fprintf(out, "%s %s\n", title("按小数换算的百分比列:"), strings.Join(st.RescaledColumns, ", "))
		}
		if len(st.MissingColumns) > 0 {
			fmt.Fprintln(out, warn("缺少的列: "+strings.Join(st.MissingColumns, ", ")))
		}

		registry := facet.DefaultRegistry()
		for _, v := range registry.Catalogue(coll.Records, models.FilterState{}) {
			if v.Kind != facet.KindMultiSelect {
				continue
			}
			labels := make([]string, len(v.Options))
			for i, o := range v.Options {
				labels[i] = o.Label
			}
			fmt.Fprintf(out, "%s %s\n", title(v.Label+":"), strings.Join(labels, " / "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
