package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/farcloser/notewise"
)

// FeatureRow is the Parquet schema of one extracted feature vector.
type FeatureRow struct {
	Frame          int64   `parquet:"frame"`
	Note           int64   `parquet:"note"`
	Frequency      float64 `parquet:"frequency"`
	Deviation      float64 `parquet:"deviation"`
	Peakiness      float64 `parquet:"peakiness"`
	RelFundamental float64 `parquet:"rel_fundamental"`
}

// WriteParquet writes features as a Snappy-compressed Parquet file.
func WriteParquet(writer io.Writer, features []notewise.NoteFeature) error {
	rows := make([]FeatureRow, len(features))
	for i, feature := range features {
		rows[i] = FeatureRow{
			Frame:          int64(feature.Frame),
			Note:           int64(feature.Note),
			Frequency:      feature.Frequency,
			Deviation:      feature.Feature.Deviation(),
			Peakiness:      feature.Feature.Peakiness(),
			RelFundamental: feature.Feature.RelFundamental(),
		}
	}

	pw := parquet.NewGenericWriter[FeatureRow](writer, parquet.Compression(&parquet.Snappy))

	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()

		return fmt.Errorf("writing parquet rows: %w", err)
	}

	if err := pw.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}

	return nil
}

// ReadParquet reads back features written by WriteParquet.
func ReadParquet(reader io.ReaderAt) ([]FeatureRow, error) {
	pr := parquet.NewGenericReader[FeatureRow](reader)
	defer pr.Close()

	rows := []FeatureRow{}
	batch := make([]FeatureRow, 1024)

	for {
		n, err := pr.Read(batch)
		rows = append(rows, batch[:n]...)

		if errors.Is(err, io.EOF) {
			return rows, nil
		}

		if err != nil {
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
	}
}
