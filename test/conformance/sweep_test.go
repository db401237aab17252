//go:build conformance

package conformance

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linklock-project/linklock/pkg/lockfile"
)

// Scenario 5: debris left by a killed same-host peer is swept before the
// first polling phase.
func TestCrashedPeerSweep(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.lock")
	host, err := os.Hostname()
	if err != nil {
		t.Fatal(err)
	}

	// Simulate the crashed peer: a process that is started, killed -9, and
	// leaves behind a unique temp file naming its pid.
	peer := exec.Command("sleep", "30")
	if err := peer.Start(); err != nil {
		t.Fatal(err)
	}
	pid := peer.Process.Pid
	if err := peer.Process.Kill(); err != nil {
		t.Fatal(err)
	}
	peer.Wait()

	debris := filepath.Join(dir,
		fmt.Sprintf("x.lock.%s.%d.1.1.1234567890.deadbeef", host, pid))
	if err := os.WriteFile(debris, []byte("host="+host+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lf, err := lockfile.New(target, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := lf.Lock(); err != nil {
		t.Fatal(err)
	}
	defer lf.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), fmt.Sprintf(".%d.", pid)) {
			t.Fatalf("crashed peer debris %s survived the sweep", e.Name())
		}
	}
}

// Debris of live processes and foreign hosts survives acquisition.
func TestSweepSparesLiveAndForeign(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "x.lock")
	host, err := os.Hostname()
	if err != nil {
		t.Fatal(err)
	}

	live := filepath.Join(dir,
		fmt.Sprintf("x.lock.%s.%d.1.1.1234567890.deadbeef", host, os.Getpid()))
	foreign := filepath.Join(dir,
		"x.lock.elsewhere.example.com.12345.1.1.1234567890.deadbeef")
	for _, p := range []string{live, foreign} {
		if err := os.WriteFile(p, []byte("debris"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	lf, err := lockfile.New(target, fastOpts())
	if err != nil {
		t.Fatal(err)
	}
	if err := lf.Lock(); err != nil {
		t.Fatal(err)
	}
	defer lf.Unlock()

	for _, p := range []string{live, foreign} {
		if _, err := os.Lstat(p); err != nil {
			t.Fatalf("%s must survive the sweep: %v", p, err)
		}
	}
}
