package cmd

import (
	"fmt"
	"sort"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices and their measurements",
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		byDevice, err := d.service.DevicesAndMeasurements()
		if err != nil {
			log.Fatalf("Unable to list devices: %s", err)
		}

		deviceNames := make([]string, 0, len(byDevice))
		for name := range byDevice {
			deviceNames = append(deviceNames, name)
		}
		sort.Strings(deviceNames)

		for _, deviceName := range deviceNames {
			fmt.Println(deviceName)
			for _, measurementName := range byDevice[deviceName] {
				fmt.Printf("  %s\n", measurementName)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
