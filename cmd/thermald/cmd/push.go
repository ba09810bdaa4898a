package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var (
	pushDevice      string
	pushMeasurement string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a measurement and its readings to the central database",
	Long: `Pushes the measurement row (assigning its order number on the central
database) and every non-deleted local reading. Reading rows get fresh ids on
every push, so pushing twice duplicates them remotely.`,
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		measurementID, err := d.service.GetMeasurementID(pushDevice, pushMeasurement)
		if err != nil {
			log.Fatalf("Measurement lookup failed: %s", err)
		}

		numOrder, err := d.pusher.Push(measurementID)
		if err != nil {
			log.Fatalf("Push to central database failed: %s", err)
		}

		log.Infof("Pushed measurement %s (order number %d)", pushMeasurement, numOrder)
	},
}

func init() {
	pushCmd.Flags().StringVarP(&pushDevice, "device", "d", "", "device name")
	pushCmd.Flags().StringVarP(&pushMeasurement, "measurement", "m", "", "measurement name")
	_ = pushCmd.MarkFlagRequired("device")
	_ = pushCmd.MarkFlagRequired("measurement")
	rootCmd.AddCommand(pushCmd)
}
