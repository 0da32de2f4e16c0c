package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/storage/kv/inmem"
)

type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

func newTestCLI(t *testing.T) *commandLine {
	t.Helper()
	svc := school.NewService(
		core.Conf,
		school.NewRepository(inmemkv.Open()),
		testLogger{},
		emailsvc.NewConsoleServiceMock(),
	)
	return &commandLine{svc: svc}
}

func mockReadPassword(t *testing.T, pin string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pin), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func Test_commandLine_help(t *testing.T) {
	cli := newTestCLI(t)

	tests := [][]string{
		{"admin"},
		{"admin", "frobnicate"},
		{"admin", "export"},
		{"admin", "restore"},
		{"admin", "import-students"},
		{"admin", "promote"},
		{"admin", "promote", "-from", "Grade 1"},
	}
	for _, args := range tests {
		if err := cli.run(args); err != errHelp {
			t.Errorf("run(%v) = %v, want errHelp", args, err)
		}
	}
}

func Test_commandLine_setpin(t *testing.T) {
	cli := newTestCLI(t)
	mockReadPassword(t, "4321")

	if err := cli.run([]string{"admin", "setpin"}); err != nil {
		t.Fatalf("setpin failed: %v", err)
	}
	settings, err := cli.svc.Repo().Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(settings.AdminPINHash), []byte("4321")); err != nil {
		t.Errorf("stored hash does not match the entered PIN: %v", err)
	}

	// an empty PIN is a no-op
	mockReadPassword(t, "")
	if err := cli.run([]string{"admin", "setpin"}); err != errHelp {
		t.Errorf("empty setpin = %v, want errHelp", err)
	}
}

func Test_commandLine_exportRestore(t *testing.T) {
	cli := newTestCLI(t)
	dir, err := ioutil.TempDir("", "shule-admin")
	if err != nil {
		t.Fatalf("TempDir() failed: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "backup.json")

	if err := cli.run([]string{"admin", "export", "-out", path}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("reading backup failed: %v", err)
	}
	var backup school.Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if len(backup.Students) != 5 {
		t.Errorf("backup has %d students, want the 5 seeds", len(backup.Students))
	}

	// wipe, restore, verify the roster is back
	if err := cli.svc.FactoryReset(); err != nil {
		t.Fatalf("FactoryReset() failed: %v", err)
	}
	if err := cli.run([]string{"admin", "restore", "-in", path}); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	students, err := cli.svc.Repo().Students()
	if err != nil {
		t.Fatalf("Students() failed: %v", err)
	}
	if len(students) != 5 {
		t.Errorf("roster has %d students after restore, want 5", len(students))
	}

	if err := cli.run([]string{"admin", "restore", "-in", filepath.Join(dir, "missing.json")}); err == nil {
		t.Error("restore from a missing file did not fail")
	}
}

func Test_commandLine_importStudents(t *testing.T) {
	cli := newTestCLI(t)
	dir, err := ioutil.TempDir("", "shule-admin")
	if err != nil {
		t.Fatalf("TempDir() failed: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "students.csv")
	csv := "fullName,parentName,phone,grade\nAsha Ali,Ali Nur,615-1111,Grade 2\nHodan Isse,Isse Adan,615-2222,Grade 4\n"
	if err := ioutil.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("writing CSV failed: %v", err)
	}

	if err := cli.run([]string{"admin", "import-students", "-csv", path}); err != nil {
		t.Fatalf("import-students failed: %v", err)
	}
	students, _ := cli.svc.Repo().Students()
	if len(students) != 7 {
		t.Errorf("roster has %d students after import, want 7", len(students))
	}
}

func Test_commandLine_promote(t *testing.T) {
	cli := newTestCLI(t)

	if err := cli.run([]string{"admin", "promote", "-from", "Grade 99", "-to", "Grade 2"}); err == nil {
		t.Error("promote with a bad grade did not fail")
	}

	if err := cli.run([]string{"admin", "promote", "-from", "Grade 5", "-to", "Grade 6"}); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	students, _ := cli.svc.Repo().Students()
	for _, s := range students {
		if s.Grade == school.Grade5 {
			t.Errorf("%s still in Grade 5", s.FullName)
		}
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := newTestCLI(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	students, err := cli.svc.Repo().Students()
	if err != nil {
		t.Fatalf("Students() failed: %v", err)
	}
	if len(students) != 5 {
		t.Errorf("roster has %d students after seed, want 5", len(students))
	}

	if err := cli.run([]string{"admin", "seed", "-reset"}); err != nil {
		t.Fatalf("seed -reset failed: %v", err)
	}
}
