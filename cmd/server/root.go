package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envName string

var rootCmd = &cobra.Command{
	Use:   "pollroom",
	Short: "pollroom runs short-lived real-time poll rooms over WebSocket.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), envName)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "config environment, reads config/config.<env>.yaml (default $CONFIG_ENV or dev)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
