package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the expectgen release version.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the expectgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("expectgen version %s\n", Version)
	},
}
