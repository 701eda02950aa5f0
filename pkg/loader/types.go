package loader

import (
	"context"
	"errors"
	"fmt"
	"spectra/pkg/common"
)

var (
	InvalidSpectrumRangeErr   = errors.New("SpectrumMin greater than SpectrumMax")
	SpectrumOutOfRangeErr     = errors.New("spectrum outside loadable range")
	SpectrumListOutOfRangeErr = errors.New("spectrum list outside loadable range")
	NoSpectraSelectedErr      = errors.New("no spectra selected")
	MonitorModeInvalidErr     = errors.New("invalid monitor mode")
)

var (
	DefaultWorkers = 4
)

type MonitorMode string

const (
	MonitorsInclude  MonitorMode = "include"
	MonitorsExclude  MonitorMode = "exclude"
	MonitorsSeparate MonitorMode = "separate"
)

// Config holds the user constraints applied on top of what a file offers.
// Nil bounds and an empty list select everything.
type Config struct {
	SpectrumMin  *int64           `yaml:"spectrum_min"`
	SpectrumMax  *int64           `yaml:"spectrum_max"`
	SpectrumList []int64          `yaml:"spectrum_list"`
	Monitors     map[int64]string `yaml:"monitors"`
	MonitorMode  MonitorMode      `yaml:"monitor_mode"`
	Workers      int              `yaml:"workers"`
}

func (cfg *Config) Validate() error {
	switch cfg.MonitorMode {
	case "", MonitorsInclude, MonitorsExclude, MonitorsSeparate:
	default:
		return fmt.Errorf("%w: %q", MonitorModeInvalidErr, cfg.MonitorMode)
	}
	if cfg.SpectrumMin != nil && cfg.SpectrumMax != nil && *cfg.SpectrumMin > *cfg.SpectrumMax {
		return fmt.Errorf("%w: %d > %d", InvalidSpectrumRangeErr, *cfg.SpectrumMin, *cfg.SpectrumMax)
	}
	return nil
}

func (cfg *Config) monitorMode() MonitorMode {
	if cfg.MonitorMode == "" {
		return MonitorsInclude
	}
	return cfg.MonitorMode
}

// LoadBlock is one contiguous read: spectra Spectra live at consecutive
// rows of the counts dataset starting at FileIndex and land at consecutive
// workspace indices starting at WorkspaceIndex. Monitor blocks target the
// separate monitor output, whose workspace indices count from 0 on their own.
type LoadBlock struct {
	Monitor        bool
	WorkspaceIndex int
	FileIndex      int
	Spectra        common.ClosedInterval
	Periods        int
	Channels       int
}

func (b LoadBlock) String() string {
	if b.Monitor {
		return fmt.Sprintf("%s@file:%d->mon:%d", b.Spectra, b.FileIndex, b.WorkspaceIndex)
	}
	return fmt.Sprintf("%s@file:%d->ws:%d", b.Spectra, b.FileIndex, b.WorkspaceIndex)
}

// Coalesce joins neighbouring blocks that continue each other in spectrum
// numbers, in the file and in the workspace, so they are read in one go.
// Blocks for different outputs never merge.
func Coalesce(blocks []LoadBlock) []LoadBlock {
	out := make([]LoadBlock, 0, len(blocks))
	for _, b := range blocks {
		if n := len(out); n > 0 {
			last := &out[n-1]
			size := last.Spectra.Len()
			if last.Monitor == b.Monitor &&
				last.FileIndex+size == b.FileIndex &&
				last.WorkspaceIndex+size == b.WorkspaceIndex &&
				last.Periods == b.Periods &&
				last.Channels == b.Channels &&
				last.Spectra.End+1 == b.Spectra.Start &&
				last.Spectra.TryMerge(b.Spectra) {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// BlockReader moves the counts of one block into the output. It is called
// from several goroutines at once.
type BlockReader interface {
	ReadBlock(context.Context, LoadBlock) error
}
