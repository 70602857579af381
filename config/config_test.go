package config

import (
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/relloyd/costpipe/rdbms/shared"
)

func newTestFile(t *testing.T) *File {
	dir, err := ioutil.TempDir("", "costpipe-config")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return NewConfigFileWithDir(path.Join(dir, MainDir), ConnectionsConfigFileFullName)
}

func TestFile_SetGetDelete(t *testing.T) {
	c := newTestFile(t)
	keys, err := c.GetAllKeys()
	if err != nil {
		t.Fatal("expected no error for a missing file: ", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys; got %v", keys)
	}
	conn := shared.ConnectionDetails{Type: "postgres", LogicalName: "TARGET", Data: map[string]string{"dsn": "postgres://u:p@h/db"}}
	if err := c.Set("TARGET", &conn); err != nil {
		t.Fatal(err)
	}
	// The file on disk must not contain the plain text DSN.
	b, err := ioutil.ReadFile(c.FullPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "postgres://") {
		t.Fatal("expected the config file to be encrypted")
	}
	// Read back using a fresh File to force a load from disk.
	c2 := NewConfigFileWithDir(c.Dirname, c.FileName)
	got, err := c2.LoadConnection("TARGET")
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != "postgres" || got.LogicalName != "TARGET" || got.Data["dsn"] != "postgres://u:p@h/db" {
		t.Fatalf("unexpected connection details: %+v", got)
	}
	if typ, err := c2.GetConnectionType("TARGET"); err != nil || typ != "postgres" {
		t.Fatalf("expected type postgres; got %q, %v", typ, err)
	}
	// Same result without a reload.
	got, err = c.LoadConnection("TARGET")
	if err != nil || got.Data["dsn"] != "postgres://u:p@h/db" {
		t.Fatalf("unexpected connection details before reload: %+v, %v", got, err)
	}
	if err := c2.Delete("TARGET"); err != nil {
		t.Fatal(err)
	}
	if err := c2.Delete("TARGET"); err == nil {
		t.Fatal("expected error deleting a missing key")
	}
	if _, err := c2.LoadConnection("TARGET"); err == nil {
		t.Fatal("expected error loading a removed connection")
	}
}

func TestFile_GetAllKeysSorted(t *testing.T) {
	c := newTestFile(t)
	for _, k := range []string{"b", "a", "c"} {
		if err := c.Set(k, shared.ConnectionDetails{Type: "sqlite3", LogicalName: k}); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := c.GetAllKeys()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(keys, ",") != "a,b,c" {
		t.Fatalf("expected sorted keys; got %v", keys)
	}
}

func TestFile_GetRequiresPointer(t *testing.T) {
	c := newTestFile(t)
	if err := c.Get("x", shared.ConnectionDetails{}); err == nil {
		t.Fatal("expected error for non-pointer output")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	b, err := Encrypt([]byte("hello"), fileEncrKey)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decrypt(b, fileEncrKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected hello; got %q", got)
	}
	if _, err := Decrypt([]byte("x"), fileEncrKey); err == nil {
		t.Fatal("expected error for short cipher text")
	}
}

func TestConfigHomeDirFromEnv(t *testing.T) {
	saved := costPipeHomeDir
	defer func() { costPipeHomeDir = saved }()
	costPipeHomeDir = ""
	t.Setenv(EnvVarConfigDir, "/tmp/costpipe-test-home")
	if got := mustGetConfigHomeDir(); got != "/tmp/costpipe-test-home" {
		t.Fatalf("expected the env var directory; got %v", got)
	}
	t.Setenv(EnvVarConfigDir, "/elsewhere")
	if got := mustGetConfigHomeDir(); got != "/tmp/costpipe-test-home" {
		t.Fatalf("expected the cached directory; got %v", got)
	}
}

func TestMakeDirAndFileExists(t *testing.T) {
	dir := path.Join(t.TempDir(), "a", "b")
	if err := makeDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := makeDir(dir); err != nil {
		t.Fatal("expected no error for an existing directory:", err)
	}
	if fileExists(dir) {
		t.Fatal("a directory is not a file")
	}
	f := path.Join(dir, "x.yaml")
	if err := ioutil.WriteFile(f, []byte("a: b\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if !fileExists(f) {
		t.Fatal("expected file to exist")
	}
}
