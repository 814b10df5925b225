package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tipjar-core/pkg/hbar"
)

var reverse bool

var convertCmd = &cobra.Command{
	Use:   "convert <amount>",
	Short: "HBAR 与 tinybar 互换",
	Long: `默认把 HBAR 展示金额换算成 tinybar (向下取整)。
加 --reverse 则把 tinybar 整数换算回 HBAR。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if reverse {
			tinybars, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("无法解析 tinybar 整数: %v\n", err)
				os.Exit(1)
			}
			amount := hbar.TinybarsToHbar(tinybars)
			fmt.Printf("%d tinybar = %s HBAR\n", tinybars, hbar.FormatHbar(amount))
			return
		}

		amount, err := hbar.ParseAmount(args[0])
		if err != nil {
			fmt.Printf("无法解析金额: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s HBAR = %d tinybar\n", hbar.FormatHbar(amount), hbar.HbarToTinybars(amount))
	},
}

func init() {
	convertCmd.Flags().BoolVar(&reverse, "reverse", false, "tinybar -> HBAR")
	rootCmd.AddCommand(convertCmd)
}
