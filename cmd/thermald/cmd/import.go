package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/thermal-commons/thermald/pkg/ingest"
	"github.com/thermal-commons/thermald/pkg/measure"
)

var (
	importDevice      string
	importMeasurement string
	importKind        string
	importUser        string
	importForce       bool
	importNoPush      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV export into a measurement and push it",
	Long: `Looks in the measurement folder for the CSV export of the given kind
(cole_cole, standard_plot or nanothickness), validates it, inserts the rows
locally and pushes the measurement to the central database.

Importing again duplicates rows; when data of that kind is already in the
database the import stops unless --force is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		d := mustSetup()

		kind := ingest.Kind(importKind)
		switch kind {
		case ingest.KindColeCole, ingest.KindStandardPlot, ingest.KindNanothickness:
		default:
			log.Fatalf("Unknown reading kind %q", importKind)
		}

		measurementID, err := d.service.GetMeasurementID(importDevice, importMeasurement)
		if err != nil {
			log.Fatalf("Measurement lookup failed: %s", err)
		}

		owner, err := d.service.IsMeasurementOwner(measurementID, importUser)
		if err != nil {
			log.Fatalf("Ownership check failed: %s", err)
		}
		if !owner {
			log.Fatalf("Only the creator of this measurement can add or sync data")
		}

		dir := measure.MeasurementDir(d.dataRoot, importDevice, importMeasurement)
		path, ok, err := ingest.FindCSV(dir, kind)
		if err != nil {
			log.Fatalf("CSV discovery failed: %s", err)
		}
		if !ok {
			log.Fatalf("No %s CSV found in %s", kind, dir)
		}

		table, err := ingest.ReadCSV(path, kind)
		if err != nil {
			log.Fatalf("CSV validation failed: %s", err)
		}

		has, err := hasReadings(d, kind, measurementID)
		if err != nil {
			log.Fatalf("Unable to check existing data: %s", err)
		}
		if has && !importForce {
			log.Fatalf("%s data already in DB for this measurement; pass --force to sync again (this duplicates rows)", kind)
		}

		if err := insertReadings(d, kind, measurementID, table); err != nil {
			log.Fatalf("Insert failed: %s", err)
		}

		log.Infof("Imported %d %s rows from %s", len(table.Rows), kind, path)

		if importNoPush {
			return
		}

		numOrder, err := d.pusher.Push(measurementID)
		if err != nil {
			log.Fatalf("Push to central database failed: %s", err)
		}

		log.Infof("Pushed measurement %s (order number %d)", importMeasurement, numOrder)
	},
}

func hasReadings(d *deps, kind ingest.Kind, measurementID string) (bool, error) {
	switch kind {
	case ingest.KindColeCole:
		return d.service.HasColeCole(measurementID)
	case ingest.KindStandardPlot:
		return d.service.HasStandardPlot(measurementID)
	default:
		return d.service.HasNanothickness(measurementID)
	}
}

func insertReadings(d *deps, kind ingest.Kind, measurementID string, table *ingest.Table) error {
	switch kind {
	case ingest.KindColeCole:
		return d.service.InsertColeCole(measurementID, table)
	case ingest.KindStandardPlot:
		return d.service.InsertStandardPlot(measurementID, table)
	default:
		return d.service.InsertNanothickness(measurementID, table)
	}
}

func init() {
	importCmd.Flags().StringVarP(&importDevice, "device", "d", "", "device name")
	importCmd.Flags().StringVarP(&importMeasurement, "measurement", "m", "", "measurement name")
	importCmd.Flags().StringVarP(&importKind, "kind", "k", "", "reading kind: cole_cole, standard_plot or nanothickness")
	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "acting username")
	importCmd.Flags().BoolVar(&importForce, "force", false, "import even when data of this kind is already in the database")
	importCmd.Flags().BoolVar(&importNoPush, "no-push", false, "skip pushing to the central database")
	_ = importCmd.MarkFlagRequired("device")
	_ = importCmd.MarkFlagRequired("measurement")
	_ = importCmd.MarkFlagRequired("kind")
	_ = importCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(importCmd)
}
