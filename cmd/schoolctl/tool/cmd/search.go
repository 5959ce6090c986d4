package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kingyeung625/hk-school-selector/service/card"
	"github.com/kingyeung625/hk-school-selector/service/facet"
	"github.com/kingyeung625/hk-school-selector/service/highlight"
	"github.com/kingyeung625/hk-school-selector/service/meta"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/query"
	"github.com/kingyeung625/hk-school-selector/service/thumbnail"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	facetArgs      []string
	page           int
	pageSize       int
	withThumbnails bool
)

// searchCmd filters the dataset and prints school cards
var searchCmd = &cobra.Command{
	Use:     "search [file]",
	Args:    cobra.MaximumNArgs(1),
	Short:   "按筛选条件查询学校",
	Example: `  schoolctl search -f schools.xlsx --facet district=沙田區,大埔區 --facet feature_teaching=閱讀
  schoolctl search -f schools.csv --facet name=聖保羅 --facet bachelor_pct=60`,
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

		out := cmd.OutOrStdout()
		if !result.FilterApplied {
			fmt.Fprintln(out, "请至少选择一个筛选条件")
			return nil
		}

		p := query.Paginate(result.Records, page, pageSize)
		cards := card.BuildAll(p.Records, result.Keywords)
		if withThumbnails {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			fetcher := thumbnail.NewFetcher(thumbnail.Options{}, thumbnail.NewMemoryCache(time.Hour))
			card.AttachThumbnails(cards, fetcher.FetchAll(ctx, card.ArticleURLs(cards)))
		}

		fmt.Fprintf(out, "共找到 %d 所学校 (第 %d/%d 页)\n\n", p.Total, p.Page, p.TotalPages)
		for i, c := range cards {
			printCard(out, c, p.Records[i], result.Keywords)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringArrayVar(&facetArgs, "facet", nil, "筛选条件 key=value，可重复")
	searchCmd.Flags().IntVar(&page, "page", 1, "页码")
	searchCmd.Flags().IntVar(&pageSize, "page-size", query.DefaultPageSize, "每页数量")
	searchCmd.Flags().BoolVar(&withThumbnails, "thumbnails", false, "抓取文章缩略图")
	rootCmd.AddCommand(searchCmd)
}

var (
	nameStyle  = color.New(color.Bold, color.FgCyan).SprintFunc()
	titleStyle = color.New(color.Bold).SprintFunc()
	faintStyle = color.New(color.Faint).SprintFunc()
)

func printCard(out io.Writer, c card.Card, rec *models.SchoolRecord, keywords []string) {
	fmt.Fprintln(out, nameStyle(c.Name))
	fmt.Fprintf(out, "  %s  校網 %s  %s\n", c.District, c.Network, c.Category)
	fmt.Fprintf(out, "  %s\n", card.StaffingText(c.Staffing))
	for _, line := range c.Homework {
		fmt.Fprintf(out, "  %s: %s\n", line.Title, line.Value)
	}
	for _, col := range []string{meta.ColSchoolFocus, meta.ColLearningStrategies} {
		text := highlight.RenderANSI(rec.Field(col), keywords)
		if text == "" {
			continue
		}
		fmt.Fprintf(out, "  %s\n%s\n", titleStyle(col), text)
	}
	for _, a := range c.Articles {
		fmt.Fprintf(out, "  - %s %s\n", a.Title, faintStyle(a.URL))
		if a.ImageURL != "" {
			fmt.Fprintf(out, "     %s\n", faintStyle(a.ImageURL))
		}
	}
	fmt.Fprintln(out)
}
