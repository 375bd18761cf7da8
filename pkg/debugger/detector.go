// Package debugger reports whether an interactive debugger is attached to the
// current process.
package debugger

// Detector observes debugger attachment.
type Detector interface {
	Attached() bool
}

// DetectorFunc adapts a plain function to Detector.
type DetectorFunc func() bool

// Attached calls f.
func (f DetectorFunc) Attached() bool {
	return f()
}

// Static returns a Detector whose answer never changes.
func Static(attached bool) Detector {
	return DetectorFunc(func() bool { return attached })
}

// Process returns a Detector that probes the running process using the
// mechanism native to the operating system.
func Process() Detector {
	return DetectorFunc(attached)
}
