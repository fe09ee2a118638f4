// Package hash derives stable 64-bit series identifiers.
package hash

import "github.com/cespare/xxhash/v2"

// PathSeparator joins a device path and a measurement name.
const PathSeparator = "."

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// SeriesPath returns the full path of a measurement, device + "." + measurement.
func SeriesPath(device, measurement string) string {
	return device + PathSeparator + measurement
}

// SeriesID hashes the full path of a measurement without building the joined string.
func SeriesID(device, measurement string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(device)
	_, _ = d.WriteString(PathSeparator)
	_, _ = d.WriteString(measurement)

	return d.Sum64()
}
