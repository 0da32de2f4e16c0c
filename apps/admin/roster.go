package main

import (
	"fmt"
	"io/ioutil"

	"github.com/trezcool/shule/core/school"
)

func (cli *commandLine) importStudents(path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	imported, err := cli.svc.ImportStudentsCSV(string(raw))
	if err != nil {
		return err
	}
	fmt.Printf("imported %d students\n", imported)
	return nil
}

func (cli *commandLine) promote(from, to string) error {
	p := school.Promotion{FromGrade: school.GradeLevel(from), ToGrade: school.GradeLevel(to)}
	if !p.FromGrade.Valid() || !p.ToGrade.Valid() {
		return fmt.Errorf("invalid grade level (got %q -> %q)", from, to)
	}
	promoted, err := cli.svc.PromoteStudents(p)
	if err != nil {
		return err
	}
	fmt.Printf("promoted %d students from %s to %s\n", promoted, from, to)
	return nil
}

// seed materializes the starter dataset by touching every collection; lazy
// seeding fills in whatever is missing. With -reset it wipes the store first.
func (cli *commandLine) seed(reset bool) error {
	if reset {
		if err := cli.svc.FactoryReset(); err != nil {
			return err
		}
	}
	if _, err := cli.svc.ExportBackup(); err != nil {
		return err
	}
	fmt.Println("starter dataset in place")
	return nil
}
