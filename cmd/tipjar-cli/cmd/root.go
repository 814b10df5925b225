package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tipjar-cli",
	Short: "TipJar 离线小工具",
	Long:  `校验账户标识、换算金额单位、拼打赏链接，全部离线完成，不碰任何网络。`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
