package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

func (cli *commandLine) exportBackup(path string) error {
	backup, err := cli.svc.ExportBackup()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	fmt.Printf("backup written to %s\n", path)
	return nil
}

func (cli *commandLine) restoreBackup(path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err := cli.svc.RestoreBackup(raw); err != nil {
		return err
	}
	fmt.Println("backup restored")
	return nil
}
