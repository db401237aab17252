package model

import "time"

// Owner identifies the process that created a lockfile. It is serialized
// into the lockfile body at creation.
type Owner struct {
	Host string
	PID  int
	PPID int
	Time time.Time
}

// SameHost reports whether the record was written on the given host.
// Hostnames are compared as exact strings; peers that disagree on short
// vs fully qualified names are treated as different hosts.
func (o Owner) SameHost(host string) bool {
	return o.Host != "" && o.Host == host
}
