package cmd

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/thermal-commons/thermald/pkg/config"
	"github.com/thermal-commons/thermald/pkg/sync"
	"github.com/thermal-commons/thermald/pkg/tldb"
	"github.com/thermal-commons/thermald/pkg/tldb/stor"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Wipe the local mirror and reload it from the central database",
	Long: `Full refresh: clears every local table and reloads it from the central
database. Anything that only exists locally, such as an unpushed measurement or
its readings, is discarded. The report afterwards shows what was thrown away.`,
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		// An explicit pull has no local-only fallback, so insist on the
		// central database instead of taking the Disconnected remote.
		remote := stor.NewGormRemoteStor(tldb.MustConnectToRemoteDB())
		puller := sync.NewPuller(d.stors.MirrorStor, remote,
			sync.PullOptions{IncludeNanothickness: config.PullNanothickness()})

		report, err := puller.Pull()
		if err != nil {
			log.Fatalf("Pull failed: %s", err)
		}

		for _, table := range []string{"users", "devices", "measurements", "cole_cole", "standard_plot", "nanothickness"} {
			fmt.Printf("%-14s discarded %4d, loaded %4d\n", table, report.Discarded[table], report.Loaded[table])
		}
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
