package extension

// ProgressReporter provides callbacks for reporting scan progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnScanStart is called once the listing of root begins.
	OnScanStart(root string)

	// OnFileScanned is called after each source file is evaluated.
	OnFileScanned(path string)

	// OnExtensionUsed is called the first time an extension is found.
	OnExtensionUsed(name string)

	// OnScanComplete is called when the scan finishes successfully.
	OnScanComplete(scannedFiles, usedExtensions int)

	// OnScanError is called instead of OnScanComplete when the scan fails.
	OnScanError(err error)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnScanStart(root string)                         {}
func (n *NoOpProgressReporter) OnFileScanned(path string)                       {}
func (n *NoOpProgressReporter) OnExtensionUsed(name string)                     {}
func (n *NoOpProgressReporter) OnScanComplete(scannedFiles, usedExtensions int) {}
func (n *NoOpProgressReporter) OnScanError(err error)                           {}
