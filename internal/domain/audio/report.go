package audio

// Detection is the snapshot taken in the Detected state. The three device
// classes are probed independently; presence of one never short-circuits
// the others.
type Detection struct {
	VirtualCables []Device
	StereoMix     []Device
	Microphones   []Device
}

// Empty reports whether no device of any class was found.
func (d Detection) Empty() bool {
	return len(d.VirtualCables) == 0 && len(d.StereoMix) == 0 && len(d.Microphones) == 0
}

// EnablementAttempt records one best-effort device enable.
type EnablementAttempt struct {
	Device string
	Err    error
}

// Report is the complete record of one pass through the device
// configuration state machine. It is always produced: verification runs
// and reports even when earlier phases failed, because audio
// misconfiguration is expected to be common and must surface actionable
// guidance.
type Report struct {
	Detection   Detection
	Attempts    []EnablementAttempt
	Usable      []Device
	Warnings    []string
	Remediation []string
	FinalState  State
}

// Succeeded reports whether verification found at least one usable input.
func (r Report) Succeeded() bool {
	return len(r.Usable) > 0
}
