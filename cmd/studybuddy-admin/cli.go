package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	joinrequeststore "github.com/studybuddyhq/studybuddy/internal/app/store/joinrequests"
	"github.com/studybuddyhq/studybuddy/internal/app/store/snapshot"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db  *mongo.Database
	log *zap.Logger
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  cleanup-join-requests [--dry-run] - remove redundant and duplicate join requests")
	fmt.Fprintln(cli.out, "  export -out FILE                  - write all collections to a JSON snapshot")
	fmt.Fprintln(cli.out, "  import -in FILE                   - load a JSON snapshot, skipping existing documents")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cleanupCmd := flag.NewFlagSet("cleanup-join-requests", flag.ExitOnError)
	cleanupDry := cleanupCmd.Bool("dry-run", false, "Report what would be removed without deleting anything.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("out", "", "Destination file for the snapshot.")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importIn := importCmd.String("in", "", "Snapshot file to load.")

	switch args[1] {
	case "cleanup-join-requests":
		if err := cleanupCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.cleanupJoinRequests(ctx, *cleanupDry)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportSnapshot(ctx, *exportOut)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importSnapshot(ctx, *importIn)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) cleanupJoinRequests(ctx context.Context, dryRun bool) error {
	report, err := joinrequeststore.New(cli.db, cli.log).Cleanup(ctx, dryRun)
	if err != nil {
		return err
	}

	for _, d := range report.Details {
		fmt.Fprintln(cli.out, d)
	}
	verb := "removed"
	if report.DryRun {
		verb = "would remove"
	}
	fmt.Fprintf(cli.out, "%s %d redundant approved request(s) and %d duplicate(s) across %d set(s)\n",
		verb, report.RedundantApproved, report.DuplicatesRemoved, report.DuplicateSets)
	return nil
}

func (cli *commandLine) exportSnapshot(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := snapshot.Export(ctx, cli.db, f)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	for _, coll := range snapshot.Collections {
		fmt.Fprintf(cli.out, "%s: %d document(s)\n", coll, res.Written[coll])
	}
	fmt.Fprintf(cli.out, "snapshot %s written to %s\n", res.ID, path)
	return nil
}

func (cli *commandLine) importSnapshot(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := snapshot.Import(ctx, cli.db, f)
	if err != nil {
		return err
	}

	for _, coll := range snapshot.Collections {
		fmt.Fprintf(cli.out, "%s: %d inserted, %d skipped\n", coll, res.Inserted[coll], res.Skipped[coll])
	}
	fmt.Fprintf(cli.out, "snapshot %s loaded from %s\n", res.ID, path)
	return nil
}
