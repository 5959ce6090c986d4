package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/kingyeung625/hk-school-selector/service/highlight"

	"github.com/spf13/cobra"
)

var renderKeywords []string

// renderCmd segments text and highlights keywords in the terminal
var renderCmd = &cobra.Command{
	Use:   "render [text]",
	Short: "按项目编号分段并标注关键字，未给出文本时从标准输入读取",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("没有可处理的文本")
		}
		fmt.Fprintln(cmd.OutOrStdout(), highlight.RenderANSI(text, renderKeywords))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringSliceVarP(&renderKeywords, "keyword", "k", nil, "需要标注的关键字，可重复或以逗号分隔")
	rootCmd.AddCommand(renderCmd)
}
