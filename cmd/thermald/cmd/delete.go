package cmd

import (
	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/thermal-commons/thermald/pkg/measure"
)

var (
	deleteDevice      string
	deleteMeasurement string
	deleteUser        string
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Soft-delete a measurement and its readings",
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		err := d.service.SoftDeleteMeasurement(deleteDevice, deleteMeasurement, deleteUser)

		var partial *measure.PartialDeleteError
		switch {
		case err == nil:
			log.Infof("Deleted measurement %s", deleteMeasurement)
		case errors.As(err, &partial):
			// The local delete stuck; the divergence resolves on the next
			// successful pull or delete sync.
			log.Warnf("Deleted locally, but syncing the delete to the central database failed: %s", partial.RemoteErr)
		case errors.Is(err, measure.ErrPermission):
			log.Fatalf("You can only delete measurements you created")
		default:
			log.Fatalf("Delete failed: %s", err)
		}
	},
}

func init() {
	deleteCmd.Flags().StringVarP(&deleteDevice, "device", "d", "", "device name")
	deleteCmd.Flags().StringVarP(&deleteMeasurement, "measurement", "m", "", "measurement name")
	deleteCmd.Flags().StringVarP(&deleteUser, "user", "u", "", "acting username")
	_ = deleteCmd.MarkFlagRequired("device")
	_ = deleteCmd.MarkFlagRequired("measurement")
	_ = deleteCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(deleteCmd)
}
