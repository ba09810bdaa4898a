package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var (
	structureDevice string
	structureAll    bool
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Show a device's structure description",
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		if structureAll {
			all, err := d.service.AllDeviceStructures()
			if err != nil {
				log.Fatalf("Unable to load device structures: %s", err)
			}

			if len(all) == 0 {
				fmt.Println("No device structures defined")
				return
			}

			for _, ds := range all {
				fmt.Printf("%s: %s\n", ds.DeviceName, renderStructure(ds.Structure))
			}
			return
		}

		if structureDevice == "" {
			log.Fatalf("Either --device or --all is required")
		}

		structure, err := d.service.GetDeviceStructure(structureDevice)
		if err != nil {
			log.Fatalf("Unable to load structure for %s: %s", structureDevice, err)
		}

		if structure == nil {
			fmt.Println("No structure defined")
			return
		}

		fmt.Println(renderStructure(structure))
	},
}

func renderStructure(structure map[string]interface{}) string {
	b, err := json.MarshalIndent(structure, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", structure)
	}
	return string(b)
}

func init() {
	structureCmd.Flags().StringVarP(&structureDevice, "device", "d", "", "device name")
	structureCmd.Flags().BoolVar(&structureAll, "all", false, "show all device structures")
	rootCmd.AddCommand(structureCmd)
}
