package cmd

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"tipjar-core/pkg/hbar"
)

var validateCmd = &cobra.Command{
	Use:   "validate <account>",
	Short: "校验账户标识格式",
	Long:  `判断参数是 Hedera 账户 (x.y.z)、EVM 地址 (0x...)，还是两者都不是。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		account := args[0]
		switch {
		case hbar.IsValidAccountID(account):
			fmt.Printf("%s: 合法的 Hedera 账户\n", account)
		case common.IsHexAddress(account):
			fmt.Printf("%s: 合法的 EVM 地址\n", account)
		default:
			fmt.Printf("%s: 不是合法的账户标识\n", account)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
