// Package doctor diagnoses whether a directory can host NFS-safe
// lockfiles: the acquire protocol needs a writable directory whose
// filesystem supports hard links with honest inode identity.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linklock-project/linklock/pkg/uuidutil"
)

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

// Doctor performs lock directory health checks.
type Doctor struct {
	dir string
}

// NewDoctor creates a doctor for the directory that will hold lockfiles.
func NewDoctor(dir string) *Doctor {
	return &Doctor{dir: dir}
}

// Check runs all diagnostic checks.
func (d *Doctor) Check() (*Result, error) {
	result := &Result{Healthy: true}

	d.checkHostname(result)
	if d.checkWritable(result) {
		d.checkHardLinks(result)
	}

	return result, nil
}

func (d *Doctor) checkHostname(result *Result) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		result.Findings = append(result.Findings, Finding{
			Category:    "identity",
			Description: "cannot determine hostname; temp names and the sweeper depend on it",
			Severity:    "critical",
		})
		result.Healthy = false
	}
}

func (d *Doctor) checkWritable(result *Result) bool {
	info, err := os.Stat(d.dir)
	if err != nil || !info.IsDir() {
		result.Findings = append(result.Findings, Finding{
			Category:    "directory",
			Description: "lock directory missing or not a directory",
			Severity:    "critical",
			Path:        d.dir,
		})
		result.Healthy = false
		return false
	}

	probe := filepath.Join(d.dir, ".linklock-doctor-"+uuidutil.Short())
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		result.Findings = append(result.Findings, Finding{
			Category:    "directory",
			Description: fmt.Sprintf("lock directory is not writable: %v", err),
			Severity:    "critical",
			Path:        d.dir,
		})
		result.Healthy = false
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

// checkHardLinks stages a file, links it, and verifies both names report
// the same identity. A filesystem that fails this cannot host the acquire
// protocol at all.
func (d *Doctor) checkHardLinks(result *Result) {
	src := filepath.Join(d.dir, ".linklock-doctor-src-"+uuidutil.Short())
	dst := filepath.Join(d.dir, ".linklock-doctor-dst-"+uuidutil.Short())
	defer os.Remove(src)
	defer os.Remove(dst)

	if err := os.WriteFile(src, []byte("probe"), 0644); err != nil {
		result.Findings = append(result.Findings, Finding{
			Category:    "hardlink",
			Description: fmt.Sprintf("cannot stage probe file: %v", err),
			Severity:    "critical",
			Path:        d.dir,
		})
		result.Healthy = false
		return
	}
	if err := os.Link(src, dst); err != nil {
		result.Findings = append(result.Findings, Finding{
			Category:    "hardlink",
			Description: fmt.Sprintf("filesystem does not support hard links: %v", err),
			Severity:    "critical",
			Path:        d.dir,
		})
		result.Healthy = false
		return
	}

	si, err1 := os.Stat(src)
	di, err2 := os.Stat(dst)
	if err1 != nil || err2 != nil || !os.SameFile(si, di) {
		result.Findings = append(result.Findings, Finding{
			Category:    "hardlink",
			Description: "linked paths do not report the same inode identity",
			Severity:    "critical",
			Path:        d.dir,
		})
		result.Healthy = false
	}
}
