package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/shule/core/school"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  setpin                                  - set the admin PIN (prompted)")
	fmt.Println("  export -out FILE                        - export all data to a backup file")
	fmt.Println("  restore -in FILE                        - restore data from a backup file")
	fmt.Println("  import-students -csv FILE               - import students from a CSV file")
	fmt.Println("  promote -from GRADE -to GRADE           - move a whole grade cohort")
	fmt.Println("  seed [-reset]                           - materialize the starter dataset")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("out", "", "Path of the backup file to write.")

	restoreCmd := flag.NewFlagSet("restore", flag.ExitOnError)
	restoreIn := restoreCmd.String("in", "", "Path of the backup file to read.")

	importCmd := flag.NewFlagSet("import-students", flag.ExitOnError)
	importCSV := importCmd.String("csv", "", "Path of the CSV file to read.")

	promoteCmd := flag.NewFlagSet("promote", flag.ExitOnError)
	promoteFrom := promoteCmd.String("from", "", "The grade to promote from, e.g. 'Grade 1'.")
	promoteTo := promoteCmd.String("to", "", "The grade to promote to, e.g. 'Grade 2'.")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedReset := seedCmd.Bool("reset", false, "Clear all existing data first.")

	switch args[1] {
	case "setpin":
		fmt.Print("Enter new PIN:")
		pin, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pin) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.setPIN(string(pin))
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportBackup(*exportOut)
	case "restore":
		if err := restoreCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *restoreIn == "" {
			restoreCmd.Usage()
			return errHelp
		}
		return cli.restoreBackup(*restoreIn)
	case "import-students":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importCSV == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importCSV)
	case "promote":
		if err := promoteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *promoteFrom == "" || *promoteTo == "" {
			promoteCmd.Usage()
			return errHelp
		}
		return cli.promote(*promoteFrom, *promoteTo)
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedReset)
	default:
		cli.printUsage()
		return errHelp
	}
}
