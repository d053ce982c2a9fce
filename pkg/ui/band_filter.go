package ui

import (
	"fmt"

	"github.com/va2bbw/qle/pkg/models"
)

// BandFilterPanel handles band and mode display filtering
type BandFilterPanel struct {
	selectedBands map[string]bool
	selectedModes map[string]bool
	bands         []string
	modes         []string
}

// NewBandFilterPanel creates a new band filter panel
func NewBandFilterPanel() *BandFilterPanel {
	return &BandFilterPanel{
		selectedBands: make(map[string]bool),
		selectedModes: make(map[string]bool),
		bands:         models.Bands,
		modes:         models.Modes,
	}
}

// ToggleBand toggles a band selection
func (bfp *BandFilterPanel) ToggleBand(band string) error {
	if !bfp.isValidBand(band) {
		return fmt.Errorf("invalid band: %s", band)
	}

	bfp.selectedBands[band] = !bfp.selectedBands[band]
	return nil
}

// ToggleMode toggles a mode selection
func (bfp *BandFilterPanel) ToggleMode(mode string) error {
	if !bfp.isValidMode(mode) {
		return fmt.Errorf("invalid mode: %s", mode)
	}

	bfp.selectedModes[mode] = !bfp.selectedModes[mode]
	return nil
}

// SetBand sets a band selection
func (bfp *BandFilterPanel) SetBand(band string, selected bool) error {
	if !bfp.isValidBand(band) {
		return fmt.Errorf("invalid band: %s", band)
	}

	bfp.selectedBands[band] = selected
	return nil
}

// SetMode sets a mode selection
func (bfp *BandFilterPanel) SetMode(mode string, selected bool) error {
	if !bfp.isValidMode(mode) {
		return fmt.Errorf("invalid mode: %s", mode)
	}

	bfp.selectedModes[mode] = selected
	return nil
}

// GetSelectedBands returns currently selected bands in display order
func (bfp *BandFilterPanel) GetSelectedBands() []string {
	var selected []string
	for _, band := range bfp.bands {
		if bfp.selectedBands[band] {
			selected = append(selected, band)
		}
	}
	return selected
}

// GetSelectedModes returns currently selected modes in display order
func (bfp *BandFilterPanel) GetSelectedModes() []string {
	var selected []string
	for _, mode := range bfp.modes {
		if bfp.selectedModes[mode] {
			selected = append(selected, mode)
		}
	}
	return selected
}

// GetBands returns all available bands
func (bfp *BandFilterPanel) GetBands() []string {
	return bfp.bands
}

// GetModes returns all available modes
func (bfp *BandFilterPanel) GetModes() []string {
	return bfp.modes
}

// IsBandSelected returns whether a band is selected
func (bfp *BandFilterPanel) IsBandSelected(band string) bool {
	return bfp.selectedBands[band]
}

// IsModeSelected returns whether a mode is selected
func (bfp *BandFilterPanel) IsModeSelected(mode string) bool {
	return bfp.selectedModes[mode]
}

// ApplyToFilterState applies the band/mode selection to a FilterState.
// An empty selection on either axis means no constraint on that axis.
func (bfp *BandFilterPanel) ApplyToFilterState(fs *models.FilterState) {
	fs.BandMode = models.BandModeFilter{
		Bands: bfp.GetSelectedBands(),
		Modes: bfp.GetSelectedModes(),
	}
}

// SelectAllBands selects all bands
func (bfp *BandFilterPanel) SelectAllBands() {
	for _, band := range bfp.bands {
		bfp.selectedBands[band] = true
	}
}

// DeselectAllBands deselects all bands
func (bfp *BandFilterPanel) DeselectAllBands() {
	for _, band := range bfp.bands {
		bfp.selectedBands[band] = false
	}
}

// SelectAllModes selects all modes
func (bfp *BandFilterPanel) SelectAllModes() {
	for _, mode := range bfp.modes {
		bfp.selectedModes[mode] = true
	}
}

// DeselectAllModes deselects all modes
func (bfp *BandFilterPanel) DeselectAllModes() {
	for _, mode := range bfp.modes {
		bfp.selectedModes[mode] = false
	}
}

// Reset resets the panel to defaults
func (bfp *BandFilterPanel) Reset() {
	bfp.selectedBands = make(map[string]bool)
	bfp.selectedModes = make(map[string]bool)
}

// CountSelected returns the number of selected bands and modes
func (bfp *BandFilterPanel) CountSelected() int {
	count := 0
	for _, selected := range bfp.selectedBands {
		if selected {
			count++
		}
	}
	for _, selected := range bfp.selectedModes {
		if selected {
			count++
		}
	}
	return count
}

// isValidBand checks if a band is valid
func (bfp *BandFilterPanel) isValidBand(band string) bool {
	for _, b := range bfp.bands {
		if b == band {
			return true
		}
	}
	return false
}

// isValidMode checks if a mode is valid
func (bfp *BandFilterPanel) isValidMode(mode string) bool {
	for _, m := range bfp.modes {
		if m == mode {
			return true
		}
	}
	return false
}

// GetFilterPresets returns common filter presets
func (bfp *BandFilterPanel) GetFilterPresets() []BandPreset {
	return []BandPreset{
		{
			Name:  "CW Only",
			Modes: []string{models.ModeCW},
		},
		{
			Name:  "Phone & Digital",
			Modes: []string{models.ModeSSB, models.ModeFT8},
		},
		{
			Name:  "VHF & Up",
			Bands: []string{"6M", "2M"},
		},
		{
			Name: "All Contacts",
		},
	}
}

// BandPreset represents a pre-configured band/mode filter
type BandPreset struct {
	Name  string
	Bands []string
	Modes []string
}

// ApplyPreset applies a preset filter
func (bfp *BandFilterPanel) ApplyPreset(preset BandPreset) error {
	bfp.DeselectAllBands()
	bfp.DeselectAllModes()

	for _, band := range preset.Bands {
		if err := bfp.SetBand(band, true); err != nil {
			return err
		}
	}
	for _, mode := range preset.Modes {
		if err := bfp.SetMode(mode, true); err != nil {
			return err
		}
	}

	return nil
}
