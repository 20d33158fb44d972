// Package buildinfo reports the version of the running binary.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/capsule/internal/infra/buildinfo.Version=v1.0.0" ./cmd/capsule-server
//
// Development builds fall back to the VCS revision and Go version recorded
// by the toolchain.
package buildinfo
