package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// setPIN hashes and stores the admin PIN in the school settings; it overrides
// the configured plain PIN from then on.
func (cli *commandLine) setPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	settings, err := cli.svc.Repo().Settings()
	if err != nil {
		return err
	}
	settings.AdminPINHash = string(hash)
	if err := cli.svc.Repo().SaveSettings(settings); err != nil {
		return err
	}
	fmt.Println("admin PIN updated")
	return nil
}
