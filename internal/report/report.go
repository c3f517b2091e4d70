// Package report writes analysis results as text tables, JSON documents and
// spreadsheets.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
)

const (
	frequencyDigits = 3

	// NoInterference is printed in place of the interference table when no
	// signal was flagged.
	NoInterference = "No significant interference detected."
)

func humanHz(hz float64) string {
	return humanize.SIWithDigits(hz, frequencyDigits, "Hz")
}

// DelayMilliseconds converts a propagation delay in seconds to milliseconds.
func DelayMilliseconds(seconds float64) float64 {
	return seconds * 1e3
}

// WriteTable writes the result as aligned text tables: run summary, signal
// features, interference and channel estimates.
func WriteTable(w io.Writer, r *analysis.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Run:\t%s\n", r.ID)
	if r.Source != "" {
		fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(tw, "Samples:\t%d\n", r.Trace.Len())
	fmt.Fprintf(tw, "Noise floor:\t%.2f dBm\n", r.NoiseFloor)
	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	if err := tw.Flush(); err != nil {
		return err
	}

	sections := []struct {
		title string
		fn    func(io.Writer, *analysis.Result) error
	}{
		{"Signals", writeFeatures},
		{"Interference", writeInterference},
		{"Channel", writeChannel},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "\n%s\n", s.title); err != nil {
			return err
		}
		if err := s.fn(w, r); err != nil {
			return fmt.Errorf("writing %s: %w", s.title, err)
		}
	}

	return nil
}

func writeFeatures(w io.Writer, r *analysis.Result) error {
	if len(r.Features) == 0 {
		_, err := fmt.Fprintln(w, "No signals detected.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tLower\tCenter\tUpper\tBandwidth\tPeak [dBm]\tSNR [dB]\tChannel [dBm]\tSatellite\t")
	for _, f := range r.Features {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%s\t\n",
			f.Index,
			humanHz(f.FrequencyLower),
			humanHz(f.FrequencyCenter),
			humanHz(f.FrequencyUpper),
			humanHz(f.Bandwidth),
			f.PeakPower,
			f.SNR,
			f.ChannelPower,
			f.Satellite,
		)
	}
	return tw.Flush()
}

func writeInterference(w io.Writer, r *analysis.Result) error {
	if !r.HasInterference() {
		_, err := fmt.Fprintln(w, NoInterference)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tType\tCenter\tSNR [dB]\t")
	for _, rec := range r.Interference {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t\n", rec.Index, rec.Kind, humanHz(rec.FrequencyCenter), rec.SNR)
	}
	return tw.Flush()
}

func writeChannel(w io.Writer, r *analysis.Result) error {
	if len(r.Attenuation) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "#\tCenter\tAttenuation [dB]\t")
		for _, est := range r.Attenuation {
			fmt.Fprintf(tw, "%d\t%s\t%.2f\t\n", est.Index, humanHz(est.FrequencyCenter), est.Attenuation)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Propagation delay: %.2f ms\n", DelayMilliseconds(r.Delay))
	return err
}

// WriteJSON writes the result as an indented JSON document.
func WriteJSON(w io.Writer, r *analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
