package cmd

import (
	"fmt"
	"os"

	"github.com/kingyeung625/hk-school-selector/logger"
	"github.com/kingyeung625/hk-school-selector/service/config"
	"github.com/kingyeung625/hk-school-selector/service/models"
	"github.com/kingyeung625/hk-school-selector/service/normalizer"
	"github.com/kingyeung625/hk-school-selector/service/tabular"

	"github.com/spf13/cobra"
)

var (
	dataPath     string
	articlesPath string
	networksPath string
	logLevel     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schoolctl",
	Short: "小學選校资料工具",
	Long:  `schoolctl 在终端中检查、筛选与导出学校资料表，行为与 HTTP 服务一致。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataPath, "file", "f", "", "学校资料文件 (csv/xlsx)")
	rootCmd.PersistentFlags().StringVar(&articlesPath, "articles", "", "文章文件，可选")
	rootCmd.PersistentFlags().StringVar(&networksPath, "networks", "", "校网文件，可选")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "日志级别")
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// loadCollection 按命令行参数载入并规范化资料，资料文件可用 --file 或第一个位置参数指定
func loadCollection(args []string) (*models.Collection, error) {
	path := dataPath
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("请指定学校资料文件")
	}
	mainSrc, closeMain, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer closeMain()

	var articles, networks *tabular.Source
	if articlesPath != "" {
		src, closeFn, err := openSource(articlesPath)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		articles = &src
	}
	if networksPath != "" {
		src, closeFn, err := openSource(networksPath)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		networks = &src
	}

	ds, err := tabular.LoadDataset(mainSrc, articles, networks)
	if err != nil {
		return nil, err
	}
	n := normalizer.NewNormalizer(config.Load().NormalizerOptions())
	coll, err := n.Normalize(ds.Records, ds.Articles, ds.Networks)
	if err != nil {
		return nil, err
	}
	coll.Source = path
	return coll, nil
}

func openSource(path string) (tabular.Source, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return tabular.Source{}, nil, fmt.Errorf("打开文件失败: %w", err)
	}
	return tabular.Source{Filename: path, Reader: f}, func() { f.Close() }, nil
}
