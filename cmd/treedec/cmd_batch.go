package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Decode a file of bracketed trees in parallel",
	Long: "batch decodes every line of the input file, one Manager per " +
		"sentence on a bounded worker pool, and writes the n-best lists in " +
		"input order.",
	RunE: runBatch,
}

var (
	flagBatchInput  string
	flagBatchOutput string
	flagWorkers     int
)

func init() {
	batchCmd.Flags().StringVar(&flagBatchInput, "input", "", "Input file, one bracketed tree per line")
	batchCmd.Flags().StringVar(&flagBatchOutput, "output", "", "Output file (default stdout)")
	batchCmd.Flags().IntVar(&flagWorkers, "workers", runtime.NumCPU(), "Number of parallel sentence decoders")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, tables, err := loadSetup()
	if err != nil {
		return err
	}
	if flagBatchInput == "" {
		return fmt.Errorf("batch: --input is required")
	}

	inFile, err := os.Open(flagBatchInput)
	if err != nil {
		return err
	}
	defer inFile.Close()

	var lines []string
	scanner := bufio.NewScanner(inFile)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	slog.Info("batch decode", "sentences", len(lines), "workers", flagWorkers)

	// One Manager per sentence; the rule tables are shared read-only.
	results := make([]string, len(lines))
	var g errgroup.Group
	g.SetLimit(flagWorkers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			result, err := decodeSentence(cfg, tables, strconv.Itoa(i), line)
			if err != nil {
				return fmt.Errorf("sentence %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := os.Stdout
	if flagBatchOutput != "" {
		out, err = os.Create(flagBatchOutput)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	defer w.Flush()
	for _, r := range results {
		if _, err := w.WriteString(r); err != nil {
			return err
		}
	}
	return nil
}
