package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID int
	GameMetric
}

type InputRecord struct {
	Game int // GameRecord.ID
	InputMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> and writes records below it.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "seed", "winner", "red_score", "blue_score", "inputs", "moves", "flips", "lines", "removals", "start_time", "end_time", "duration"}
	return w.write("game_records.csv", "game record", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.ID),
			strconv.FormatUint(record.Seed, 10),
			record.Winner.String(),
			strconv.Itoa(record.Score[0]),
			strconv.Itoa(record.Score[1]),
			strconv.Itoa(record.Inputs),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.Flips),
			strconv.Itoa(record.Lines),
			strconv.Itoa(record.Removals),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
	})
}

func (w *Writer) WriteInputRecords(records []InputRecord) error {
	header := []string{"game", "step", "player", "row", "col", "action", "phase", "flipped", "lines"}
	return w.write("input_records.csv", "input record", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			strconv.Itoa(record.Input.Row),
			strconv.Itoa(record.Input.Col),
			record.Action.String(),
			record.Phase.String(),
			strconv.Itoa(record.Flipped),
			strconv.Itoa(record.Lines),
		}
	})
}

func (w *Writer) write(file, what string, header []string, n int, row func(int) []string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}

	for i := 0; i < n; i++ {
		err = writer.Write(row(i))
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s file: %w", what, err)
	}
	return nil
}
