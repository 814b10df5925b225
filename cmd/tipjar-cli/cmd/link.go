package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tipjar-core/internal/service"
	"tipjar-core/internal/tip"
)

var (
	linkBaseURL string
	linkAmount  string
	linkMessage string
)

var linkCmd = &cobra.Command{
	Use:   "link <recipient>",
	Short: "生成打赏链接",
	Long:  `把收款人和可选的建议金额/留言编码成应用 URL 的 query 参数，纯离线拼接。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(linkMessage) > tip.MaxMemoLength {
			fmt.Printf("留言超过 %d 字符上限\n", tip.MaxMemoLength)
			os.Exit(1)
		}

		links := service.NewLinkService(nil, linkBaseURL)
		url, err := links.BuildURL(args[0], linkAmount, linkMessage)
		if err != nil {
			fmt.Printf("生成链接失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(url)
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkBaseURL, "base-url", "https://tipjar.example.com", "应用地址")
	linkCmd.Flags().StringVar(&linkAmount, "amount", "", "建议金额 (可选)")
	linkCmd.Flags().StringVar(&linkMessage, "message", "", "留言 (可选, 最长 100 字符)")
	rootCmd.AddCommand(linkCmd)
}
