package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
)

const (
	SheetSignals      = "Signals"
	SheetInterference = "Interference"
	SheetChannel      = "Channel"

	defaultSheet = "Sheet1"
	columnWidth  = 18
)

var (
	signalsHeader = []any{
		"Signal",
		"Lower frequency [Hz]",
		"Center frequency [Hz]",
		"Upper frequency [Hz]",
		"Bandwidth [Hz]",
		"Peak power [dBm]",
		"Noise floor [dBm]",
		"SNR [dB]",
		"Channel power [dBm]",
		"Satellite",
	}
	interferenceHeader = []any{"Signal", "Type", "Center frequency [Hz]", "SNR [dB]"}
	channelHeader      = []any{"Signal", "Center frequency [Hz]", "Attenuation [dB]"}
)

// WriteXLSX writes the result as a workbook with one sheet per table.
func WriteXLSX(w io.Writer, r *analysis.Result) (err error) {
	f, err := newWorkbook(r)
	if err != nil {
		return err
	}
	defer closeWithError(f, &err)

	if err = f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook into the file at path.
func SaveXLSX(path string, r *analysis.Result) (err error) {
	f, err := newWorkbook(r)
	if err != nil {
		return err
	}
	defer closeWithError(f, &err)

	if err = f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func newWorkbook(r *analysis.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(defaultSheet, SheetSignals); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetInterference, SheetChannel} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	ops := []struct {
		msg string
		fn  func(*excelize.File, int, *analysis.Result) error
	}{
		{"writing signals", writeSignalsSheet},
		{"writing interference", writeInterferenceSheet},
		{"writing channel", writeChannelSheet},
	}
	for _, op := range ops {
		if err = op.fn(f, headerStyle, r); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return f, nil
}

func writeHeader(f *excelize.File, sheet string, style int, header []any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, columnWidth)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeSignalsSheet(f *excelize.File, style int, r *analysis.Result) error {
	if err := writeHeader(f, SheetSignals, style, signalsHeader); err != nil {
		return err
	}

	for i, ft := range r.Features {
		if err := writeRow(f, SheetSignals, i+2, []any{
			ft.Index,
			ft.FrequencyLower,
			ft.FrequencyCenter,
			ft.FrequencyUpper,
			ft.Bandwidth,
			ft.PeakPower,
			ft.NoiseFloor,
			ft.SNR,
			ft.ChannelPower,
			ft.Satellite,
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeInterferenceSheet(f *excelize.File, style int, r *analysis.Result) error {
	if err := writeHeader(f, SheetInterference, style, interferenceHeader); err != nil {
		return err
	}

	for i, rec := range r.Interference {
		if err := writeRow(f, SheetInterference, i+2, []any{
			rec.Index,
			rec.Kind,
			rec.FrequencyCenter,
			rec.SNR,
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeChannelSheet(f *excelize.File, style int, r *analysis.Result) error {
	if err := writeHeader(f, SheetChannel, style, channelHeader); err != nil {
		return err
	}

	for i, est := range r.Attenuation {
		if err := writeRow(f, SheetChannel, i+2, []any{
			est.Index,
			est.FrequencyCenter,
			est.Attenuation,
		}); err != nil {
			return err
		}
	}

	// delay goes below the table, separated by an empty row
	return writeRow(f, SheetChannel, len(r.Attenuation)+3, []any{
		"Propagation delay [ms]",
		DelayMilliseconds(r.Delay),
	})
}
