package lock

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linklock-project/linklock/pkg/model"
)

// The lockfile body is a short line-oriented key=value block. Structured
// formats were tried and abandoned: real-world lockfiles get truncated and
// corrupted, and a reader that can throw on bad input turns debris into an
// unsweepable obstruction. The hand-rolled reader never fails; it only
// refuses to vouch for what it read.

const timeLayout = time.RFC3339Nano

// encodeOwner serializes an owner record. Anything after the key=value
// block is free-form and ignored by readers.
func encodeOwner(o model.Owner) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "host=%s\n", o.Host)
	fmt.Fprintf(&b, "pid=%d\n", o.PID)
	fmt.Fprintf(&b, "ppid=%d\n", o.PPID)
	fmt.Fprintf(&b, "time=%s\n", o.Time.Format(timeLayout))
	fmt.Fprintf(&b, "\nlinklock lockfile: pid %d on %s\n", o.PID, o.Host)
	return b.Bytes()
}

// decodeOwner parses a lockfile body. ok is false when any required field
// is missing or unreadable; callers must then treat the record as unknown
// and leave the file alone.
func decodeOwner(data []byte) (model.Owner, bool) {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			break // end of the key=value block; the rest is free-form
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if _, dup := fields[key]; !dup {
			fields[key] = value
		}
	}

	var o model.Owner
	o.Host = fields["host"]
	if o.Host == "" {
		return model.Owner{}, false
	}

	pid, err := strconv.Atoi(fields["pid"])
	if err != nil || pid <= 0 {
		return model.Owner{}, false
	}
	o.PID = pid

	ppid, err := strconv.Atoi(fields["ppid"])
	if err != nil || ppid < 0 {
		return model.Owner{}, false
	}
	o.PPID = ppid

	ts, err := time.Parse(timeLayout, fields["time"])
	if err != nil {
		return model.Owner{}, false
	}
	o.Time = ts

	return o, true
}
