package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var (
	createDevice string
	createName   string
	createUser   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a measurement under a device",
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		deviceID, err := d.service.GetDeviceID(createDevice)
		if err != nil {
			log.Fatalf("Device lookup failed: %s", err)
		}

		measurement, err := d.service.CreateMeasurement(createDevice, deviceID, createName, createUser)
		if err != nil {
			log.Fatalf("Unable to create measurement: %s", err)
		}

		log.Infof("Created measurement %s (%s)", measurement.Name, measurement.ID)
	},
}

func init() {
	createCmd.Flags().StringVarP(&createDevice, "device", "d", "", "device name")
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "measurement name")
	createCmd.Flags().StringVarP(&createUser, "user", "u", "", "acting username")
	_ = createCmd.MarkFlagRequired("device")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(createCmd)
}
