package loader

import (
	"fmt"
	"sort"
	"spectra/pkg/common"
	"spectra/pkg/datablock"

	"github.com/sirupsen/logrus"
)

// Plan is the outcome of applying a Config to the spectra of one file.
type Plan struct {
	// Spectra are loaded into the main output, Monitors only in
	// MonitorsSeparate mode.
	Spectra      *datablock.Composite
	Monitors     *datablock.Composite
	MonitorNames map[int64]string

	fileIndex map[int64]int
}

// NewPlan decides which spectra of a file get loaded. indices is the
// detector index dataset in file order.
func NewPlan[T datablock.Index](cfg *Config, indices []T, periods, channels int) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	monitorIDs := sortedIDs(cfg.Monitors)
	file := datablock.NewComposite()
	datablock.Populate(file, indices, periods, channels, monitorIDs)
	if file.IsEmpty() {
		return nil, fmt.Errorf("%w: file has no spectra", NoSpectraSelectedErr)
	}

	plan := &Plan{
		Monitors:     datablock.NewComposite(),
		MonitorNames: make(map[int64]string, len(cfg.Monitors)),
		fileIndex:    make(map[int64]int, len(indices)),
	}
	for id, name := range cfg.Monitors {
		plan.MonitorNames[id] = name
	}
	for pos, index := range indices {
		id := int64(index)
		if _, ok := plan.fileIndex[id]; !ok {
			plan.fileIndex[id] = pos
		}
	}

	selected, err := plan.selectSpectra(cfg, file, periods, channels)
	if err != nil {
		return nil, err
	}

	if len(monitorIDs) > 0 && cfg.monitorMode() != MonitorsInclude {
		monitors := datablock.NewComposite()
		datablock.Populate(monitors, monitorIDs, periods, channels, monitorIDs)
		if cfg.monitorMode() == MonitorsSeparate {
			if plan.Monitors, err = intersect(selected, monitors); err != nil {
				return nil, err
			}
		}
		if err = selected.RemoveSpectra(monitors); err != nil {
			return nil, err
		}
	}
	plan.Spectra = selected

	if plan.Spectra.IsEmpty() && plan.Monitors.IsEmpty() {
		return nil, NoSpectraSelectedErr
	}
	logrus.WithFields(logrus.Fields{
		"spectra":  plan.Spectra.NumberOfSpectra(),
		"blocks":   len(plan.Spectra.DataBlocks()),
		"monitors": plan.Monitors.NumberOfSpectra(),
	}).Debugf("spectrum plan %s", plan.Spectra)
	return plan, nil
}

func (plan *Plan) selectSpectra(cfg *Config, file *datablock.Composite, periods, channels int) (*datablock.Composite, error) {
	fileMin, _ := file.MinSpectrumID()
	fileMax, _ := file.MaxSpectrumID()
	hasRange := cfg.SpectrumMin != nil || cfg.SpectrumMax != nil
	specMin, specMax := fileMin, fileMax
	if cfg.SpectrumMin != nil {
		specMin = *cfg.SpectrumMin
	}
	if cfg.SpectrumMax != nil {
		specMax = *cfg.SpectrumMax
	}
	if hasRange {
		if specMin > specMax {
			return nil, fmt.Errorf("%w: %d > %d", InvalidSpectrumRangeErr, specMin, specMax)
		}
		fileRange := common.ClosedInterval{Start: fileMin, End: fileMax}
		if !fileRange.Contains(common.ClosedInterval{Start: specMin, End: specMax}) {
			return nil, fmt.Errorf("%w: [%d,%d] not within [%d,%d]",
				SpectrumOutOfRangeErr, specMin, specMax, fileMin, fileMax)
		}
	}

	var list *datablock.Composite
	if len(cfg.SpectrumList) > 0 {
		ids := dedup(cfg.SpectrumList)
		for _, id := range ids {
			if _, ok := plan.fileIndex[id]; !ok {
				return nil, fmt.Errorf("%w: %d", SpectrumListOutOfRangeErr, id)
			}
		}
		list = datablock.NewComposite()
		datablock.Populate(list, ids, periods, channels, nil)
	}

	switch {
	case list == nil && !hasRange:
		return file.Clone(), nil
	case list == nil:
		selected := file.Clone()
		selected.Truncate(specMin, specMax)
		return selected, nil
	case !hasRange:
		return intersect(file, list)
	}

	selected := file.Clone()
	selected.Truncate(specMin, specMax)
	bounds := datablock.NewComposite()
	bounds.AddDataBlock(boundBlock(common.ClosedInterval{Start: specMin, End: specMax}, periods, channels))
	if err := list.RemoveSpectra(bounds); err != nil {
		return nil, err
	}
	extra, err := intersect(file, list)
	if err != nil {
		return nil, err
	}
	return selected.Union(extra), nil
}

// LoadBlocks lists the reads for the main output in workspace order.
func (plan *Plan) LoadBlocks() []LoadBlock {
	return plan.loadBlocks(plan.Spectra, false)
}

// MonitorLoadBlocks lists the reads for the separate monitor output.
func (plan *Plan) MonitorLoadBlocks() []LoadBlock {
	return plan.loadBlocks(plan.Monitors, true)
}

func (plan *Plan) loadBlocks(c *datablock.Composite, monitor bool) []LoadBlock {
	blocks := make([]LoadBlock, 0)
	wsIndex := 0
	for _, b := range c.DataBlocks() {
		ids, ok := b.Interval()
		if !ok {
			continue
		}
		blocks = append(blocks, LoadBlock{
			Monitor:        monitor,
			WorkspaceIndex: wsIndex,
			FileIndex:      plan.fileIndex[ids.Start],
			Spectra:        ids,
			Periods:        b.NumberOfPeriods(),
			Channels:       b.NumberOfChannels(),
		})
		wsIndex += ids.Len()
	}
	return blocks
}

// SpectrumNumbers maps workspace index to spectrum number.
func (plan *Plan) SpectrumNumbers() []int64 {
	return plan.Spectra.AllSpectrumNumbers()
}

func boundBlock(ids common.ClosedInterval, periods, channels int) datablock.DataBlock {
	b := datablock.NewDataBlock(periods, ids.Len(), channels)
	b.SetMinSpectrumID(ids.Start)
	b.SetMaxSpectrumID(ids.End)
	return b
}

// intersect returns the spectra of a that are also in b, keeping the block
// boundaries of a.
func intersect(a, b *datablock.Composite) (*datablock.Composite, error) {
	outside := a.Clone()
	if err := outside.RemoveSpectra(b); err != nil {
		return nil, err
	}
	inside := a.Clone()
	if err := inside.RemoveSpectra(outside); err != nil {
		return nil, err
	}
	return inside, nil
}

func sortedIDs(m map[int64]string) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func dedup(ids []int64) []int64 {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	for _, id := range sorted {
		if len(out) == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
