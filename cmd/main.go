package main

import (
	"fmt"
	"os"

	"github.com/antelope-tools/msigview/cmd/msigview"
)

func main() {
	rootCmd := msigview.BuildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
