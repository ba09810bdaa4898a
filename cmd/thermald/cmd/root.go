package cmd

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/thermal-commons/thermald/pkg/config"
	"github.com/thermal-commons/thermald/pkg/measure"
	"github.com/thermal-commons/thermald/pkg/sync"
	"github.com/thermal-commons/thermald/pkg/tldb"
	"github.com/thermal-commons/thermald/pkg/tldb/stor"
	"github.com/thermal-commons/thermald/pkg/tlog"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thermald",
	Short: "Local manager for laboratory thermal measurement data",
	Long: `thermald keeps a local mirror of the shared thermal measurement database,
imports instrument CSV exports into it and pushes accepted measurements back
to the central database.`,
}

// deps holds everything a subcommand needs wired up against the local mirror
// and the remote capability.
type deps struct {
	stors    *stor.Stors
	remote   stor.RemoteStor
	service  *measure.Service
	puller   *sync.Puller
	pusher   *sync.Pusher
	dataRoot string
}

// mustSetup prepares the local side (config, folders, mirror, migrations) and
// connects the remote side. A central database that can't be reached leaves
// the process in local-only mode with a Disconnected remote.
func mustSetup() *deps {
	config.MustLoadFromThermalDotenv()

	dataRoot := config.DataRoot()
	dbPath := config.LocalDBPath()

	if err := tlog.Setup(dataRoot); err != nil {
		log.Fatalf("Unable to set up logging: %s", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Unable to create database directory: %s", err)
	}

	if err := os.MkdirAll(measure.DevicesRoot(dataRoot), 0755); err != nil {
		log.Fatalf("Unable to create data root: %s", err)
	}

	db, err := tldb.ConnectToLocalDB(dbPath)
	if err != nil {
		log.Fatalf("Unable to open local database %s: %s", dbPath, err)
	}

	if err := tldb.RunMigrations(db); err != nil {
		log.Fatalf("Local database migration failed: %s", err)
	}

	stors := stor.NewGormStors(db)

	var remote stor.RemoteStor
	if rdb, err := tldb.ConnectToRemoteDB(); err != nil {
		log.Warnf("Central database unreachable, running local-only: %s", err)
		remote = stor.NewDisconnectedRemoteStor()
	} else {
		remote = stor.NewGormRemoteStor(rdb)
	}

	return &deps{
		stors:    stors,
		remote:   remote,
		service:  measure.NewService(stors, remote, dataRoot),
		puller:   sync.NewPuller(stors.MirrorStor, remote, sync.PullOptions{IncludeNanothickness: config.PullNanothickness()}),
		pusher:   sync.NewPusher(stors, remote),
		dataRoot: dataRoot,
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
