// Package resources measures host resources and classifies them into a
// performance tier that drives the rendered stack configuration.
//
// Classification is a pure, total function over RAM; the hard gates abort
// the run before any side effect when the host is below minimums.
package resources

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sekolahku/skdeploy/internal/platform/host"
)

// Tier is the discrete performance classification of a host.
type Tier string

// Tiers, ordered.
const (
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// RAM thresholds (MB) for tier classification.
const (
	largeRAMThresholdMB  = 14000
	mediumRAMThresholdMB = 6000
)

// Hard minimums per validation profile. Below these the installation aborts
// before touching the host.
const (
	strictMinRAMMB   = 2000
	strictMinDiskGB  = 10
	relaxedMinRAMMB  = 1000
	relaxedMinDiskGB = 5
)

// Readings are the measured host resources.
type Readings struct {
	RAMMB      int
	CPUCores   int
	FreeDiskGB int
}

// Parameters is the tier-specific configuration tuple.
type Parameters struct {
	// Workers is the process-pool worker count.
	Workers int
	// DBBufferSize is the database buffer pool size.
	DBBufferSize string
	// CacheMemoryCap is the cache daemon memory ceiling.
	CacheMemoryCap string
}

// Profile combines readings with their derived tier and parameters.
type Profile struct {
	Readings
	Tier   Tier
	Params Parameters
}

// tierParams maps every tier to its fixed parameter tuple.
var tierParams = map[Tier]Parameters{
	TierSmall:  {Workers: 2, DBBufferSize: "256M", CacheMemoryCap: "128mb"},
	TierMedium: {Workers: 4, DBBufferSize: "1024M", CacheMemoryCap: "256mb"},
	TierLarge:  {Workers: 8, DBBufferSize: "2048M", CacheMemoryCap: "512mb"},
}

// Classify maps RAM to a tier. Total and monotonic: more RAM never yields a
// smaller tier.
func Classify(ramMB int) Tier {
	switch {
	case ramMB >= largeRAMThresholdMB:
		return TierLarge
	case ramMB >= mediumRAMThresholdMB:
		return TierMedium
	default:
		return TierSmall
	}
}

// ParamsFor returns the fixed parameter tuple of a tier.
func ParamsFor(tier Tier) Parameters {
	return tierParams[tier]
}

// NewProfile derives the full resource profile from readings.
func NewProfile(r Readings) Profile {
	tier := Classify(r.RAMMB)
	return Profile{Readings: r, Tier: tier, Params: ParamsFor(tier)}
}

// PreconditionError reports insufficient host resources. It always surfaces
// before any side effect.
type PreconditionError struct {
	Resource string
	Message  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition: %s: %s", e.Resource, e.Message)
}

// CheckGates verifies the hard minimums for the given strictness.
func CheckGates(r Readings, strict bool) error {
	minRAM, minDisk := relaxedMinRAMMB, relaxedMinDiskGB
	if strict {
		minRAM, minDisk = strictMinRAMMB, strictMinDiskGB
	}
	if r.RAMMB < minRAM {
		return &PreconditionError{
			Resource: "memory",
			Message:  fmt.Sprintf("%dMB RAM available, %dMB required", r.RAMMB, minRAM),
		}
	}
	if r.FreeDiskGB < minDisk {
		return &PreconditionError{
			Resource: "disk",
			Message:  fmt.Sprintf("%dGB free, %dGB required", r.FreeDiskGB, minDisk),
		}
	}
	return nil
}

// Probe measures the host through the capability interface.
func Probe(h host.Host) (Readings, error) {
	ramMB, err := probeRAM(h)
	if err != nil {
		return Readings{}, err
	}
	cores, err := probeCores(h)
	if err != nil {
		return Readings{}, err
	}
	free, err := h.DiskFree("/")
	if err != nil {
		return Readings{}, fmt.Errorf("failed to read free disk space: %w", err)
	}
	return Readings{
		RAMMB:      ramMB,
		CPUCores:   cores,
		FreeDiskGB: int(free >> 30),
	}, nil
}

func probeRAM(h host.Host) (int, error) {
	data, err := h.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, fmt.Errorf("failed to read /proc/meminfo: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil {
			break
		}
		return kb / 1024, nil
	}
	return 0, fmt.Errorf("no MemTotal entry in /proc/meminfo")
}

func probeCores(h host.Host) (int, error) {
	data, err := h.ReadFile("/proc/cpuinfo")
	if err != nil {
		return 0, fmt.Errorf("failed to read /proc/cpuinfo: %w", err)
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "processor") {
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("no processor entries in /proc/cpuinfo")
	}
	return count, nil
}
