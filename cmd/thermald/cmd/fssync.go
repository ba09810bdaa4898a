package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var fssyncCmd = &cobra.Command{
	Use:   "fssync",
	Short: "Create missing device and measurement folders under the data root",
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		if err := d.service.SyncFilesystem(); err != nil {
			log.Fatalf("Filesystem sync failed: %s", err)
		}

		log.Infof("Data folders in sync under %s", d.dataRoot)
	},
}

func init() {
	rootCmd.AddCommand(fssyncCmd)
}
