package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/thermal-commons/thermald/pkg/auth"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify credentials against the mirrored users and refresh the mirror",
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		user, err := d.service.GetUserByUsername(loginUsername)
		if err != nil {
			log.Fatalf("User not found: %s", err)
		}

		if !user.IsActive() {
			log.Fatalf("User %s is inactive", user.Username)
		}

		if !auth.VerifyPassword(loginPassword, user.HashedPassword) {
			log.Fatalf("Invalid password for %s", user.Username)
		}

		// A failed pull on login is not fatal; the mirrored data stays in use.
		if _, err := d.puller.Pull(); err != nil {
			log.Warnf("Could not sync from central database: %s. Using local data.", err)
		}

		if err := d.service.SyncFilesystem(); err != nil {
			log.Fatalf("Filesystem sync failed: %s", err)
		}

		log.Infof("Logged in as %s", user.Username)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "user", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("user")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
