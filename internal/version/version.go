// ABOUTME: Build metadata constants
// ABOUTME: Identifies the emitter in logs and mDNS advertisements
package version

const (
	// Version is the release version of this build.
	Version = "0.1.0"

	// Product is the product name reported in logs.
	Product = "vban-go"

	// Manufacturer identifies the project.
	Manufacturer = "vban-stream"
)
