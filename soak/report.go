package soak

import (
	"fmt"

	"github.com/sugawarayuuta/sonnet"
)

// Result is the outcome of one container run.
type Result struct {
	Container     string `json:"container"`
	Seed          int64  `json:"seed"`
	Ops           int    `json:"ops"`            // operations actually executed
	Mismatches    int    `json:"mismatches"`     // disagreements with the reference model
	FirstMismatch string `json:"first_mismatch"` // "" when clean
	ElapsedNS     int64  `json:"elapsed_ns"`
	Interrupted   bool   `json:"interrupted"` // stopped before Ops ran out
}

// OK reports whether the run saw no mismatch.
func (r Result) OK() bool { return r.Mismatches == 0 }

// Report gathers every container result of one soak invocation.
type Report struct {
	StartedUnix int64    `json:"started_unix"`
	Seed        int64    `json:"seed"`
	Results     []Result `json:"results"`
}

// Failed reports whether any container disagreed with its model.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if !res.OK() {
			return true
		}
	}
	return false
}

// Interrupted reports whether any run was cut short.
func (r *Report) Interrupted() bool {
	for _, res := range r.Results {
		if res.Interrupted {
			return true
		}
	}
	return false
}

// JSON encodes the report.
func (r *Report) JSON() ([]byte, error) {
	out, err := sonnet.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("soak: encode report: %w", err)
	}
	return out, nil
}

// DecodeReport parses a report produced by JSON.
func DecodeReport(data []byte) (*Report, error) {
	var r Report
	if err := sonnet.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("soak: decode report: %w", err)
	}
	return &r, nil
}
